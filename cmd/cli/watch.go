package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print change events from a running api-server",
	Args:  cobra.NoArgs,
	RunE:  runWatch,
}

var (
	watchAPI    string
	watchWS     string
	watchPretty bool
)

func init() {
	watchCmd.Flags().StringVar(&watchAPI, "api", "http://localhost:8080", "API base URL")
	watchCmd.Flags().StringVar(&watchWS, "ws", "", "WebSocket URL (defaults to /ws on the API host)")
	watchCmd.Flags().BoolVar(&watchPretty, "pretty", true, "pretty print JSON events")
}

func runWatch(cmd *cobra.Command, _ []string) error {
	endpoint := watchWS
	if endpoint == "" {
		var err error
		endpoint, err = websocketURL(watchAPI, "/ws")
		if err != nil {
			return fmt.Errorf("ws url: %w", err)
		}
	}

	for {
		err := watchOnce(cmd, endpoint)
		if cmd.Context().Err() != nil {
			return nil
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "[watch] disconnected: %v\n", err)
		select {
		case <-cmd.Context().Done():
			return nil
		case <-time.After(time.Second):
		}
	}
}

func watchOnce(cmd *cobra.Command, endpoint string) error {
	conn, _, err := websocket.DefaultDialer.DialContext(cmd.Context(), endpoint, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	stop := context.AfterFunc(cmd.Context(), func() { _ = conn.Close() })
	defer stop()

	fmt.Fprintf(cmd.ErrOrStderr(), "[watch] connected to %s\n", endpoint)
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		printEvent(cmd.OutOrStdout(), msg, watchPretty)
	}
}

func printEvent(w io.Writer, msg []byte, pretty bool) {
	if !pretty {
		fmt.Fprintln(w, string(msg))
		return
	}
	var obj map[string]any
	if err := json.Unmarshal(msg, &obj); err != nil {
		fmt.Fprintln(w, string(msg))
		return
	}
	b, _ := json.MarshalIndent(obj, "", "  ")
	fmt.Fprintln(w, string(b))
}

func websocketURL(baseURL, path string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", err
	}
	scheme := "ws"
	if u.Scheme == "https" {
		scheme = "wss"
	}
	return (&url.URL{
		Scheme: scheme,
		Host:   u.Host,
		Path:   path,
	}).String(), nil
}
