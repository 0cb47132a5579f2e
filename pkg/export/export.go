// Package export writes induction results in interchange formats for
// downstream planning tools.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
	"strings"

	"github.com/railops/inductd/core/model"
)

// WriteJSON writes the full run record to w.
func WriteJSON(w io.Writer, run *model.InductionRun) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(run)
}

// WriteCSV writes one row per trainset decision. Reasons and blockers are
// joined with "; " inside their cells.
func WriteCSV(w io.Writer, run *model.InductionRun) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"trainset_id", "decision", "score", "reasons", "blockers"}); err != nil {
		return err
	}
	for _, o := range run.Results {
		rec := []string{
			o.TrainsetID,
			string(o.Decision),
			strconv.FormatFloat(o.Score, 'f', -1, 64),
			strings.Join(o.Reasons, "; "),
			strings.Join(o.Blockers, "; "),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
