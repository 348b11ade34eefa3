package feed

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"dining-status-backend/internal/store"
)

func epochRange(start, end time.Time) string {
	return fmt.Sprintf(`{"start": %d, "end": %d}`, start.UnixMilli(), end.UnixMilli())
}

func unmarshalLocation(body string, loc *store.FeedLocation) error {
	return json.Unmarshal([]byte(body), loc)
}
