package service

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	auditdomain "github.com/afsacademy/groupgate/internal/audit/domain"
	"go.uber.org/zap"
)

var yearDirPattern = regexp.MustCompile(`^log(\d{4})$`)

func yearDir(dataDir string, year int) string {
	return filepath.Join(dataDir, fmt.Sprintf("log%d", year))
}

// scanYears lists the years that have a log<yyyy> directory, ascending.
func scanYears(dataDir string) ([]int, error) {
	entries, err := os.ReadDir(dataDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read data dir: %w", err)
	}
	var years []int
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		m := yearDirPattern.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		y, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		years = append(years, y)
	}
	sort.Ints(years)
	return years, nil
}

// scanPartitions reads every decision record of a year. Malformed lines
// are skipped; a partially written trailing line must not sink the
// whole rebuild.
func scanPartitions(log *zap.Logger, dataDir string, year int) ([]auditdomain.DecisionRecord, error) {
	dir := yearDir(dataDir, year)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read year dir: %w", err)
	}

	var records []auditdomain.DecisionRecord
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".jsonl") {
			continue
		}
		recs, err := readPartition(log, filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		records = append(records, recs...)
	}
	return records, nil
}

func readPartition(log *zap.Logger, path string) ([]auditdomain.DecisionRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open partition: %w", err)
	}
	defer f.Close()

	var records []auditdomain.DecisionRecord
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		var rec auditdomain.DecisionRecord
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			log.Warn("skipping malformed partition line",
				zap.String("file", path),
				zap.Error(err),
			)
			continue
		}
		records = append(records, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan partition: %w", err)
	}
	return records, nil
}
