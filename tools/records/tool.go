// Package records serves the user's structured personal records, one tool per category.
package records

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/bububa/lifelog-agent/components/datastore"
	"github.com/bububa/lifelog-agent/tools"
)

// Window is how far back records are returned
const Window = 7 * 24 * time.Hour

const dateLayout = "2006-01-02"

type Config struct {
	tools.Config
	userID string
	now    func() time.Time
}

// Tool fetches the last 7 days of one category of records for the configured user
type Tool struct {
	Config
	store    datastore.Store
	category Category
}

var _ tools.Tool = (*Tool)(nil)

func New(store datastore.Store, category Category, opts ...Option) *Tool {
	ret := &Tool{
		store:    store,
		category: category,
	}
	ret.SetTitle(category.Name)
	ret.SetDescription(category.Description)
	for _, opt := range opts {
		opt(&ret.Config)
	}
	if ret.now == nil {
		ret.now = time.Now
	}
	return ret
}

func (t *Tool) Category() Category {
	return t.category
}

// Invoke ignores its argument, the records returned depend only on the user and the date
func (t *Tool) Invoke(ctx context.Context, _ string) (string, error) {
	if t.userID == "" {
		return tools.NotConfigured(t.Title(), "USER_UUID"), nil
	}
	if t.store == nil {
		return tools.NotConfigured(t.Title(), "DATABASE_URL"), nil
	}
	rows, err := t.store.Select(ctx, t.category.Table, []string{"*"}, map[string]any{"user_id": t.userID})
	if err != nil {
		return "", fmt.Errorf("select %s: %w", t.category.Table, err)
	}
	if len(rows) == 0 {
		return tools.NotFound("No %s found.", t.category.Label), nil
	}
	today := truncateDay(t.now().UTC())
	weekAgo := today.Add(-Window)
	recent := make([]datastore.Row, 0, len(rows))
	for _, row := range rows {
		day, ok := parseDay(row[t.category.DateColumn])
		if !ok {
			continue
		}
		if day.Before(weekAgo) || day.After(today) {
			continue
		}
		recent = append(recent, row)
	}
	if len(recent) == 0 {
		return tools.NotFound("No %s found in the last 7 days.", t.category.Label), nil
	}
	bs, err := json.Marshal(recent)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s for the last 7 days: %s", capitalize(t.category.Label), string(bs)), nil
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func parseDay(v any) (time.Time, bool) {
	switch d := v.(type) {
	case time.Time:
		return truncateDay(d.UTC()), true
	case string:
		if len(d) < len(dateLayout) {
			return time.Time{}, false
		}
		day, err := time.Parse(dateLayout, d[:len(dateLayout)])
		if err != nil {
			return time.Time{}, false
		}
		return day, true
	}
	return time.Time{}, false
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
