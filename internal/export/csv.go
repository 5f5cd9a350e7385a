package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/ecamli/monk/internal/store"
)

// ToCSV writes one row per completed session record, ordered by task, day
// and slot index.
func ToCSV(snap *store.Snapshot, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"Task", "Day", "Session", "Completed At", "Minutes"}); err != nil {
		return err
	}

	for _, ts := range snap.Tasks {
		days := make([]string, 0, len(ts.History))
		for day := range ts.History {
			days = append(days, day)
		}
		sort.Strings(days)

		for _, day := range days {
			for _, rec := range ts.History[day] {
				row := []string{
					ts.Task.Name,
					day,
					fmt.Sprintf("%d", rec.Index),
					rec.CompletedAt.Local().Format(time.RFC3339),
					fmt.Sprintf("%d", ts.Task.MinutesPerSession),
				}
				if err := w.Write(row); err != nil {
					return err
				}
			}
		}
	}

	return w.Error()
}
