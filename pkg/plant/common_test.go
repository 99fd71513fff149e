package plant

import (
	"bufio"
	"encoding/json"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"liyu1981.xyz/plant-monitor-service/pkg/db"
	"liyu1981.xyz/plant-monitor-service/pkg/plant/mocks"
	"liyu1981.xyz/plant-monitor-service/pkg/sheets"
	"liyu1981.xyz/plant-monitor-service/pkg/uploads"
)

const testSourceID = "plants"

// GetTestPlant builds a Plant over an isolated in-memory database. With
// useMockStore the telemetry store is a gomock mock, otherwise a workbook in a temp dir.
func GetTestPlant(t *testing.T, useMockStore bool) (*gomock.Controller, *Plant, *mocks.MockISeriesStore) {
	ctrl := gomock.NewController(t)
	mockStore := mocks.NewMockISeriesStore(ctrl)

	dbInstance, err := db.NewInstance(db.UseIsolatedMemorySqliteDialector())
	require.NoError(t, err)

	var store ISeriesStore = mockStore
	if !useMockStore {
		wb, err := sheets.NewWorkbook(t.TempDir())
		require.NoError(t, err)
		store = wb
	}

	files, err := uploads.NewDir(t.TempDir())
	require.NoError(t, err)

	loc, err := time.LoadLocation("Asia/Taipei")
	require.NoError(t, err)

	p := &Plant{
		Db:       *dbInstance,
		Store:    store,
		Files:    files,
		SourceID: testSourceID,
		Location: loc,
	}
	p.WithDefaultServices()

	return ctrl, p, mockStore
}

func ParseLogs(r io.Reader) []any {
	scanner := bufio.NewScanner(r)
	var logs []any

	for scanner.Scan() {
		var j any
		if err := json.Unmarshal([]byte(scanner.Text()), &j); err == nil {
			logs = append(logs, j)
		}
	}
	return logs
}
