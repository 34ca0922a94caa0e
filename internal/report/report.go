package report

import (
	"net/url"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"mangatheque/pkg/models"
)

const (
	EmptyMessage = "Ta bibliothèque est vide !"
	Separator    = "\n\n---------------------------------\n\n"
	MailSubject  = "Ma Mangathèque"
)

// Entry is the report line-up for one series.
type Entry struct {
	SeriesID string `json:"seriesId"`
	Title    string `json:"title"`
	Owned    []int  `json:"owned"`
	ToBuy    []int  `json:"toBuy"`
	// Total is nil when the published count is unknown.
	Total      *int `json:"total,omitempty"`
	OwnedCount int  `json:"ownedCount"`
}

type Report struct {
	Entries []Entry `json:"entries"`
}

// Build summarises each series in collection order. It does not modify its
// input.
func Build(series []models.Series) Report {
	entries := make([]Entry, 0, len(series))
	for _, s := range series {
		entries = append(entries, entryFor(s))
	}
	return Report{Entries: entries}
}

func entryFor(s models.Series) Entry {
	owned := make([]int, 0, len(s.Volumes))
	for _, v := range s.Volumes {
		if v.Owned {
			owned = append(owned, v.Number)
		}
	}
	slices.Sort(owned)

	e := Entry{
		SeriesID:   s.ID,
		Title:      s.Title,
		Owned:      owned,
		ToBuy:      []int{},
		OwnedCount: len(owned),
	}
	if s.TotalAvailableInFrance != nil && *s.TotalAvailableInFrance > 0 {
		total := *s.TotalAvailableInFrance
		e.Total = &total
		for n := 1; n <= total; n++ {
			if _, found := slices.BinarySearch(owned, n); !found {
				e.ToBuy = append(e.ToBuy, n)
			}
		}
	}
	return e
}

// Text renders the entry as the four-line block.
func (e Entry) Text() string {
	total := "?"
	if e.Total != nil {
		total = strconv.Itoa(*e.Total)
	}

	var b strings.Builder
	b.WriteString("📖 Série : ")
	b.WriteString(cases.Upper(language.French).String(e.Title))
	b.WriteString("\n📚 Tomes en mangathèque : ")
	b.WriteString(strconv.Itoa(e.OwnedCount))
	b.WriteString(" sur ")
	b.WriteString(total)
	b.WriteString("\n✅ Tomes possédés : ")
	b.WriteString(joinOrNone(e.Owned))
	b.WriteString("\n❌ Tomes à acheter : ")
	b.WriteString(joinOrNone(e.ToBuy))
	return b.String()
}

// Text returns the full report, or EmptyMessage for an empty collection.
func (r Report) Text() string {
	if len(r.Entries) == 0 {
		return EmptyMessage
	}
	blocks := make([]string, len(r.Entries))
	for i, e := range r.Entries {
		blocks[i] = e.Text()
	}
	return strings.Join(blocks, Separator)
}

func joinOrNone(nums []int) string {
	if len(nums) == 0 {
		return "aucun"
	}
	parts := make([]string, len(nums))
	for i, n := range nums {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ", ")
}

// MailtoLink builds a mailto: URI with no recipient, the fixed subject and
// body as the message.
func MailtoLink(body string) string {
	return "mailto:?subject=" + escapeComponent(MailSubject) + "&body=" + escapeComponent(body)
}

// componentUnescaper undoes the QueryEscape encodings that
// encodeURIComponent does not apply.
var componentUnescaper = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// escapeComponent percent-encodes like encodeURIComponent.
func escapeComponent(s string) string {
	return componentUnescaper.Replace(url.QueryEscape(s))
}
