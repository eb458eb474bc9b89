package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/millennium/internal/domain"
)

// Count renders the "<Plural>: N" line shown above a list.
func Count(res domain.Resource, n int) string {
	return fmt.Sprintf("%s: %d", res.Plural, n)
}

// EmptyState renders the placeholder for an empty list.
func EmptyState(res domain.Resource) string {
	return Dim(fmt.Sprintf("No %s yet", strings.ToLower(res.Plural)))
}

// FormatRecordList renders rows in a titled box, or the empty state.
func FormatRecordList(res domain.Resource, recs []domain.Record) string {
	if len(recs) == 0 {
		return RenderBox(res.Plural, Count(res, 0)+"\n\n"+EmptyState(res))
	}

	headers := []string{"ID", strings.ToUpper(res.DisplayField)}
	rows := make([][]string, 0, len(recs))
	for _, r := range recs {
		rows = append(rows, []string{
			StyleGreen.Render(strconv.FormatInt(r.ID, 10)),
			Bold(r.Display),
		})
	}
	return RenderBox(res.Plural, Count(res, len(recs))+"\n\n"+RenderTable(headers, rows))
}

// FormatRecord renders one row as "#id display".
func FormatRecord(r domain.Record) string {
	return StyleGreen.Render("#"+strconv.FormatInt(r.ID, 10)) + " " + r.Display
}

// FormatUser renders the signed-in identity.
func FormatUser(u *domain.User) string {
	if u == nil {
		return Dim("Not signed in")
	}
	out := "Signed in as " + Bold(u.Label())
	if u.Email != "" {
		out += " " + Dim("("+TruncID(u.ID)+")")
	}
	return out
}
