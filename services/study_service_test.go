package services_test

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studyCheckAPI/internal/dateutil"
	"studyCheckAPI/services"
)

const testFamilyCode = "FAM-1234"

var (
	existsQuery = regexp.QuoteMeta(`SELECT EXISTS(SELECT 1 FROM study_logs WHERE family_code = $1 AND study_date = $2)`)
	insertLog   = regexp.QuoteMeta(`INSERT INTO study_logs (family_code, study_date, photo_url)`)
	datesQuery  = regexp.QuoteMeta(`SELECT study_date FROM study_logs WHERE family_code = $1`)
	deleteToday = regexp.QuoteMeta(`DELETE FROM study_logs WHERE family_code = $1 AND study_date = $2`)
)

func dateRows(keys ...string) *pgxmock.Rows {
	rows := pgxmock.NewRows([]string{"study_date"})
	for _, k := range keys {
		rows.AddRow(k)
	}
	return rows
}

func TestCheckInFirstOfTheDay(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	svc := services.NewStudyService(mock)

	today := dateutil.Today()
	yesterday := dateutil.Yesterday()

	mock.ExpectQuery(existsQuery).
		WithArgs(testFamilyCode, today).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec(insertLog).
		WithArgs(testFamilyCode, today, (*string)(nil)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectQuery(datesQuery).
		WithArgs(testFamilyCode).
		WillReturnRows(dateRows(yesterday, today))

	resp, err := svc.CheckIn(context.Background(), testFamilyCode, nil)
	require.NoError(t, err)
	assert.Equal(t, today, resp.StudyDate)
	assert.False(t, resp.AlreadyDone)
	assert.Equal(t, 2, resp.Streak.Current)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckInAlreadyDoneSkipsInsert(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	svc := services.NewStudyService(mock)

	today := dateutil.Today()

	mock.ExpectQuery(existsQuery).
		WithArgs(testFamilyCode, today).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(datesQuery).
		WithArgs(testFamilyCode).
		WillReturnRows(dateRows(today))

	resp, err := svc.CheckIn(context.Background(), testFamilyCode, nil)
	require.NoError(t, err)
	assert.True(t, resp.AlreadyDone)
	assert.Equal(t, 1, resp.Streak.Current)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckInLosingRaceCountsAsAlreadyDone(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	svc := services.NewStudyService(mock)

	today := dateutil.Today()

	// The exists probe ran before a concurrent check-in committed; the insert
	// hits the unique index and affects zero rows.
	mock.ExpectQuery(existsQuery).
		WithArgs(testFamilyCode, today).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec(insertLog).
		WithArgs(testFamilyCode, today, (*string)(nil)).
		WillReturnResult(pgxmock.NewResult("INSERT", 0))
	mock.ExpectQuery(datesQuery).
		WithArgs(testFamilyCode).
		WillReturnRows(dateRows(today))

	resp, err := svc.CheckIn(context.Background(), testFamilyCode, nil)
	require.NoError(t, err)
	assert.True(t, resp.AlreadyDone)
	assert.Equal(t, 1, resp.Streak.Current)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckInDBError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	svc := services.NewStudyService(mock)

	mock.ExpectQuery(existsQuery).
		WithArgs(testFamilyCode, dateutil.Today()).
		WillReturnError(errors.New("db down"))

	_, err = svc.CheckIn(context.Background(), testFamilyCode, nil)
	assert.Error(t, err)
}

func TestStreakFromRawDuplicatedRows(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	svc := services.NewStudyService(mock)

	today := dateutil.Today()
	mock.ExpectQuery(datesQuery).
		WithArgs(testFamilyCode).
		WillReturnRows(dateRows(
			dateutil.AddDays(today, -2),
			today,
			today,
			dateutil.AddDays(today, -1),
		))

	result, err := svc.Streak(context.Background(), testFamilyCode)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Current)
	assert.Equal(t, 3, result.Longest)
}

func TestStreakBrokenHistory(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	svc := services.NewStudyService(mock)

	today := dateutil.Today()
	mock.ExpectQuery(datesQuery).
		WithArgs(testFamilyCode).
		WillReturnRows(dateRows(
			dateutil.AddDays(today, -3),
			dateutil.AddDays(today, -4),
		))

	result, err := svc.Streak(context.Background(), testFamilyCode)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Current)
	assert.Equal(t, 2, result.Longest)
}

func TestCalendar(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	svc := services.NewStudyService(mock)

	mock.ExpectQuery(datesQuery).
		WithArgs(testFamilyCode).
		WillReturnRows(dateRows("2026-02-05", "2026-02-14", "2026-03-01"))

	resp, err := svc.Calendar(context.Background(), testFamilyCode, 2026, 2)
	require.NoError(t, err)
	assert.Equal(t, 2026, resp.Year)
	assert.Equal(t, 2, resp.Month)
	assert.Len(t, resp.Days, 28)
	assert.Equal(t, "2026-02-01", resp.Days[0].Date)
	assert.True(t, resp.Days[4].Done)
	assert.True(t, resp.Days[13].Done)
	assert.False(t, resp.Days[0].Done)
}

func TestHeatmapWindow(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	svc := services.NewStudyService(mock)

	today := dateutil.Today()
	mock.ExpectQuery(datesQuery).
		WithArgs(testFamilyCode).
		WillReturnRows(dateRows(today, dateutil.AddDays(today, -1)))

	resp, err := svc.Heatmap(context.Background(), testFamilyCode, 2)
	require.NoError(t, err)
	assert.Len(t, resp.Days, 14)
	assert.Equal(t, dateutil.AddDays(today, -13), resp.From)
	assert.Equal(t, today, resp.To)
	assert.Equal(t, resp.From, resp.Days[0].Date)
	assert.Equal(t, today, resp.Days[13].Date)
	assert.True(t, resp.Days[13].Done)
	assert.True(t, resp.Days[12].Done)
	assert.False(t, resp.Days[0].Done)
}

func TestDeleteToday(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	svc := services.NewStudyService(mock)

	testCases := []struct {
		Desc         string
		Error        bool
		MockPrepFunc func()
	}{
		{
			Desc: "deletes existing row",
			MockPrepFunc: func() {
				mock.ExpectExec(deleteToday).
					WithArgs(testFamilyCode, dateutil.Today()).
					WillReturnResult(pgxmock.NewResult("DELETE", 1))
			},
		},
		{
			Desc: "nothing to delete is still success",
			MockPrepFunc: func() {
				mock.ExpectExec(deleteToday).
					WithArgs(testFamilyCode, dateutil.Today()).
					WillReturnResult(pgxmock.NewResult("DELETE", 0))
			},
		},
		{
			Desc:  "db error",
			Error: true,
			MockPrepFunc: func() {
				mock.ExpectExec(deleteToday).
					WithArgs(testFamilyCode, dateutil.Today()).
					WillReturnError(errors.New("db down"))
			},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.Desc, func(t *testing.T) {
			tc.MockPrepFunc()
			err := svc.DeleteToday(context.Background(), testFamilyCode)
			if tc.Error {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
