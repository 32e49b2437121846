package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/uber-go/zap"
	"github.com/yulrizka/numbergame/config"
	"github.com/yulrizka/numbergame/model"
	"github.com/yulrizka/numbergame/repo"
)

const snapshotFile = "stats.json"

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the current week stats into a JSON snapshot",
	RunE:  runExport,
}

func init() {
	f := exportCmd.Flags()
	f.String("outdir", "stats", "output directory")
	f.Bool("reset", false, "reset the stats database after exporting")
	f.Int("week", -1, "override ISO week number")
	f.String("stats-driver", "", "stats storage: "+strings.Join(repo.Drivers, ", ")+" (STATS_DRIVER)")
	f.String("stats-dsn", "", "stats data source: redis address, bolt file or SQL DSN (STATS_DSN)")
}

func runExport(cmd *cobra.Command, args []string) error {
	f := cmd.Flags()
	outdir, _ := f.GetString("outdir")
	reset, _ := f.GetBool("reset")
	overrideWeek, _ := f.GetInt("week")
	if outdir == "" {
		return errors.New("outdir cannot be empty")
	}

	cfg := config.FromEnv()
	if f.Changed("stats-driver") {
		cfg.StatsDriver, _ = f.GetString("stats-driver")
	}
	if f.Changed("stats-dsn") {
		cfg.StatsDSN, _ = f.GetString("stats-dsn")
	}
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "invalid configuration")
	}

	db, err := openStats(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	current, err := db.AllStats()
	if err != nil {
		return errors.Wrap(err, "loading stats")
	}

	if err := os.MkdirAll(outdir, 0744); err != nil {
		return err
	}
	fileName := filepath.Join(outdir, snapshotFile)
	sf, err := readSnapshot(fileName)
	if err != nil {
		return err
	}

	now := time.Now()
	key := weekKey(now, overrideWeek)
	sf = mergeSnapshot(sf, key, current, now)
	if err := writeSnapshot(fileName, sf); err != nil {
		return err
	}
	log.Info("stats exported", zap.String("file", fileName), zap.String("week", key), zap.Int("keys", len(current)))

	// reset current week data if reset flag is true
	if reset {
		if err := db.Reset(); err != nil {
			return errors.Wrap(err, "reset stats")
		}
		log.Info("stats reset", zap.String("driver", cfg.StatsDriver))
	}

	return nil
}

func weekKey(t time.Time, overrideWeek int) string {
	year, week := t.ISOWeek()
	if overrideWeek > 0 {
		week = overrideWeek
	}
	return fmt.Sprintf("%d-%d", year, week)
}

// mergeSnapshot replaces the bucket of week with current and keeps the total
// consistent, exporting the same week twice does not count it twice
func mergeSnapshot(sf model.Snapshot, week string, current model.Stats, now time.Time) model.Snapshot {
	if sf.Weekly == nil {
		sf.Weekly = make(map[string]model.Stats)
	}
	total := sf.Total.Subtract(sf.Weekly[week])
	sf.Total = total.Add(current)
	sf.Weekly[week] = current
	sf.LastUpdated = now.Format(time.RFC3339)

	return sf
}

func readSnapshot(fileName string) (model.Snapshot, error) {
	file, err := os.Open(fileName)
	if os.IsNotExist(err) {
		log.Warn("snapshot not found, creating new file", zap.String("file", fileName))
		return model.Snapshot{Total: model.Stats{}, Weekly: make(map[string]model.Stats)}, nil
	}
	if err != nil {
		return model.Snapshot{}, err
	}
	defer file.Close()

	var sf model.Snapshot
	if err := json.NewDecoder(file).Decode(&sf); err != nil {
		return sf, errors.Wrapf(err, "decoding %s", fileName)
	}
	return sf, nil
}

func writeSnapshot(fileName string, sf model.Snapshot) error {
	file, err := os.OpenFile(fileName, os.O_CREATE|os.O_TRUNC|os.O_RDWR, 0600)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(sf); err != nil {
		file.Close()
		return errors.Wrapf(err, "encoding %s", fileName)
	}
	return file.Close()
}
