package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// setupEnv points the CLI at a temp database and a fake schedule site that
// serves April 2024 and returns 404 for every other month.
func setupEnv(t *testing.T) string {
	t.Helper()

	fixture, err := os.ReadFile("../scraper/testdata/schedule_04_detail.html")
	require.NoError(t, err)

	site := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/games/2024/schedule_04_detail.html" {
			http.NotFound(w, r)
			return
		}
		w.Write(fixture)
	}))
	t.Cleanup(site.Close)

	dir := t.TempDir()
	t.Chdir(dir)
	for _, k := range []string{"DB_DRIVER", "REDIS_ADDR", "LOG_LEVEL", "FETCH_TIMEOUT"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	t.Setenv("DB_DSN", filepath.Join(dir, "kansen.db"))
	t.Setenv("SOURCE_BASE_URL", site.URL)
	return dir
}

func run(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := Run(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestScrape_Month(t *testing.T) {
	setupEnv(t)

	code, out, errOut := run(t, "scrape", "--year", "2024", "--month", "4")
	require.Equal(t, ExitSuccess, code, errOut)
	require.Contains(t, out, "2024-04: extracted 4, reconciled 4")
	require.Contains(t, out, "Total: 4 reconciled across 1 months")

	// running again updates in place
	code, _, errOut = run(t, "scrape", "--year", "2024", "--month", "4")
	require.Equal(t, ExitSuccess, code, errOut)

	code, out, _ = run(t, "record", "add", "--game-code", "2024-04-14-巨人-阪神", "--memo", "開幕")
	require.Equal(t, ExitSuccess, code)
	require.Contains(t, out, "東京ドーム")

	code, out, _ = run(t, "record", "list", "--team", "giants")
	require.Equal(t, ExitSuccess, code)
	require.Contains(t, out, "○ 巨人 vs 阪神 3 - 2 @ 東京ドーム [勝 戸郷 / 敗 才木] - 開幕")
	require.Contains(t, out, "Total: 1 records")
}

func TestScrape_FullYearReportsEachMonth(t *testing.T) {
	setupEnv(t)

	code, out, errOut := run(t, "scrape", "--year", "2024", "--format", "json")
	require.Equal(t, ExitMonthsFailed, code)
	require.Contains(t, errOut, "11 of 12 months failed")

	var result ScrapeResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	require.Len(t, result.Months, 12)
	require.Equal(t, 11, result.Summary.Failed)
	require.Equal(t, 4, result.Summary.Reconciled)
	for _, m := range result.Months {
		if m.Month == 4 {
			require.False(t, m.Failed())
			continue
		}
		require.Equal(t, "fetch_failure", string(m.Failure))
	}
}

func TestScrape_TargetDate(t *testing.T) {
	setupEnv(t)

	code, out, errOut := run(t, "scrape", "--year", "2024", "--month", "4", "--date", "2024-04-15")
	require.Equal(t, ExitSuccess, code, errOut)
	require.Contains(t, out, "2024-04 (2024-04-15): extracted 1, reconciled 1")

	code, out, _ = run(t, "scrape", "--year", "2024", "--month", "4", "--date", "2024-04-20")
	require.Equal(t, ExitSuccess, code)
	require.Contains(t, out, "2024-04 (2024-04-20): no games")
}

func TestScrape_Validation(t *testing.T) {
	setupEnv(t)

	tests := []struct {
		name string
		args []string
	}{
		{"missing year", []string{"scrape"}},
		{"bad month", []string{"scrape", "--year", "2024", "--month", "13"}},
		{"bad date", []string{"scrape", "--year", "2024", "--date", "2024-13-01"}},
		{"bad format", []string{"scrape", "--year", "2024", "--format", "xml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, out, errOut := run(t, tt.args...)
			require.Equal(t, ExitFailure, code)
			require.Empty(t, out)
			require.True(t, strings.HasPrefix(errOut, "Error: "), errOut)
		})
	}
}

func TestStatsAndCleanup(t *testing.T) {
	setupEnv(t)

	code, _, errOut := run(t, "scrape", "--year", "2024", "--month", "4")
	require.Equal(t, ExitSuccess, code, errOut)

	code, _, _ = run(t, "record", "add", "--game-code", "2024-04-14-巨人-阪神")
	require.Equal(t, ExitSuccess, code)
	code, _, _ = run(t, "record", "add", "--game-code", "2024-04-14-広島-DeNA")
	require.Equal(t, ExitSuccess, code)

	code, _, errOut = run(t, "record", "add", "--game-code", "2024-04-14-楽天-ロッテ")
	require.Equal(t, ExitFailure, code)
	require.Contains(t, errOut, "no game")

	code, out, _ := run(t, "stats", "--team", "広島")
	require.Equal(t, ExitSuccess, code)
	require.Contains(t, out, "広島: 0勝 1敗 0分 (.000) / 1試合")

	code, out, _ = run(t, "stats", "--team", "巨人", "--year", "2024", "--format", "json")
	require.Equal(t, ExitSuccess, code)
	var summary struct {
		Wins       int    `json:"wins"`
		Percentage string `json:"percentage"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	require.Equal(t, 1, summary.Wins)
	require.Equal(t, "1.000", summary.Percentage)

	code, out, _ = run(t, "cleanup")
	require.Equal(t, ExitSuccess, code)
	require.Contains(t, out, "Deleted 2 unused games.")

	code, out, _ = run(t, "record", "delete", "1")
	require.Equal(t, ExitSuccess, code)
	require.Contains(t, out, "Deleted 1 records.")

	code, _, _ = run(t, "record", "delete", "abc")
	require.Equal(t, ExitFailure, code)
}

func TestTeams(t *testing.T) {
	setupEnv(t)

	code, out, _ := run(t, "teams")
	require.Equal(t, ExitSuccess, code)
	require.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 12)
	require.Contains(t, out, "pacific  ソフトバンク")
}

func TestUnknownFlagsAndConfig(t *testing.T) {
	setupEnv(t)

	code, _, errOut := run(t, "scrape", "--nope")
	require.Equal(t, ExitFailure, code)
	require.Contains(t, errOut, "unknown flag")

	code, _, errOut = run(t, "--db-driver", "oracle", "teams")
	require.Equal(t, ExitFailure, code)
	require.Contains(t, errOut, "DB_DRIVER")
}

func TestRecordExport(t *testing.T) {
	dir := setupEnv(t)

	code, _, errOut := run(t, "scrape", "--year", "2024", "--month", "4")
	require.Equal(t, ExitSuccess, code, errOut)
	code, _, _ = run(t, "record", "add", "--game-code", "2024-04-14-広島-DeNA", "--memo", "初観戦")
	require.Equal(t, ExitSuccess, code)

	code, out, _ := run(t, "record", "export")
	require.Equal(t, ExitSuccess, code)
	require.Contains(t, out, "SUMMARY:広島 1 - 5 DeNA\r\n")
	require.Contains(t, out, "初観戦")

	path := filepath.Join(dir, "kansen.ics")
	code, _, _ = run(t, "record", "export", "--team", "巨人", "-o", path)
	require.Equal(t, ExitSuccess, code)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NotContains(t, string(data), "BEGIN:VEVENT")
}
