package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"mangatheque/pkg/models"
)

// Suggestion holds whatever fields the model could fill in. Empty fields
// mean "unknown".
type Suggestion struct {
	Title       string `json:"title,omitempty"`
	Author      string `json:"author,omitempty"`
	Nationality string `json:"nationality,omitempty"`
}

func (s *Suggestion) empty() bool {
	return s.Title == "" && s.Author == "" && s.Nationality == ""
}

// Merge copies the non-empty suggested fields onto d.
func (s *Suggestion) Merge(d models.SeriesDraft) models.SeriesDraft {
	if s == nil {
		return d
	}
	if s.Title != "" {
		d.Title = s.Title
	}
	if s.Author != "" {
		d.Author = s.Author
	}
	if s.Nationality != "" {
		d.Nationality = s.Nationality
	}
	return d
}

type Suggester struct {
	gen Generator
	log *zap.Logger
}

func NewSuggester(gen Generator, log *zap.Logger) *Suggester {
	if log == nil {
		log = zap.NewNop()
	}
	return &Suggester{gen: gen, log: log.Named("suggest")}
}

func suggestPrompt(query string) string {
	return fmt.Sprintf("Donne-moi les infos réelles pour le manga \"%s\" au format JSON:\n"+
		"- title (le titre officiel complet)\n"+
		"- author (le nom de l'auteur)\n"+
		"- nationality (Japonais, Français, Coréen...)", query)
}

// Suggest asks for the official title, author and nationality of query.
// It returns nil on a blank query or any failure.
func (s *Suggester) Suggest(ctx context.Context, query string) *Suggestion {
	query = strings.TrimSpace(query)
	if query == "" || s.gen == nil {
		return nil
	}

	text, err := s.gen.GenerateJSON(ctx, suggestPrompt(query))
	if err != nil {
		s.log.Warn("suggestion request failed", zap.String("query", query), zap.Error(err))
		return nil
	}

	var out Suggestion
	if err := json.Unmarshal([]byte(stripFence(text)), &out); err != nil {
		s.log.Warn("suggestion response not json", zap.String("query", query), zap.Error(err))
		return nil
	}
	out.Title = strings.TrimSpace(out.Title)
	out.Author = strings.TrimSpace(out.Author)
	out.Nationality = strings.TrimSpace(out.Nationality)
	if out.empty() {
		return nil
	}
	return &out
}
