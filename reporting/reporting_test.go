package reporting

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testReport() Report {
	r := Report{Node: "WS", Time: time.Date(2026, 3, 1, 10, 32, 55, 0, time.UTC)}
	r.Add(TempHumidity, 20, 1)
	r.Add(Humidity, 50, 0)
	r.Add(Pressure, 1000, 1)
	r.Add(DewPoint, 10, 1)
	r.Add(WindAverage, 16.09344, 1)
	r.Add(Rainfall, 25.4, 1)
	return r
}

func TestReportGet(t *testing.T) {
	r := testReport()

	v, ok := r.Get(Humidity)
	assert.True(t, ok)
	assert.Equal(t, 50.0, v)

	_, ok = r.Get(Panel)
	assert.False(t, ok)

	assert.Equal(t, []string{"TA", "HU", "PR", "DP", "WA", "RA"}, r.IDs())

	r.AddExtra(WindGust, 12, 1)
	v, ok = r.Get(WindGust)
	assert.True(t, ok)
	assert.Equal(t, 12.0, v)
	assert.Len(t, r.All(), 7)
	// extras stay off the send order
	assert.Equal(t, []string{"TA", "HU", "PR", "DP", "WA", "RA"}, r.IDs())
}

type fakeRecorder struct {
	name  string
	err   error
	calls int
}

func (f *fakeRecorder) Name() string { return f.name }

func (f *fakeRecorder) Record(context.Context, Report) error {
	f.calls++
	return f.err
}

func TestRecordersContinueAfterFailure(t *testing.T) {
	a := &fakeRecorder{name: "a", err: errors.New("down")}
	b := &fakeRecorder{name: "b"}

	Recorders{a, b}.Record(context.Background(), testReport())

	assert.Equal(t, 1, a.calls)
	assert.Equal(t, 1, b.calls)
}

func TestGauges(t *testing.T) {
	reg := prometheus.NewRegistry()
	g, err := NewGauges(reg)
	require.NoError(t, err)

	require.NoError(t, g.Record(context.Background(), testReport()))
	assert.Equal(t, 1000.0, testutil.ToFloat64(g.readings.WithLabelValues(Pressure)))
	assert.Equal(t, 1.0, testutil.ToFloat64(g.flushes))

	_, err = NewGauges(reg)
	assert.Error(t, err, "second registration on the same registry")
}

type execCall struct {
	query string
	args  []interface{}
}

type fakeTx struct {
	calls      []execCall
	failOn     int
	committed  bool
	rolledBack bool
}

func (f *fakeTx) ExecContext(_ context.Context, query string, args ...interface{}) (sql.Result, error) {
	f.calls = append(f.calls, execCall{query: query, args: args})
	if f.failOn > 0 && len(f.calls) == f.failOn {
		return nil, errors.New("conn reset")
	}
	return nil, nil
}

func (f *fakeTx) Commit() error {
	f.committed = true
	return nil
}

func (f *fakeTx) Rollback() error {
	f.rolledBack = true
	return nil
}

func postgresOn(t *fakeTx, beginErr error) *Postgres {
	return &Postgres{begin: func(context.Context) (tx, error) {
		if beginErr != nil {
			return nil, beginErr
		}
		return t, nil
	}}
}

func TestPostgres(t *testing.T) {
	tx := &fakeTx{}
	r := testReport()
	r.AddExtra(WindGust, 20, 1)

	require.NoError(t, postgresOn(tx, nil).Record(context.Background(), r))
	require.Len(t, tx.calls, len(r.Readings)+1)
	assert.Equal(t, insertReading, tx.calls[0].query)
	assert.Equal(t, []interface{}{"WS", "TA", 20.0, r.Time}, tx.calls[0].args)
	assert.Equal(t, "WG", tx.calls[len(tx.calls)-1].args[1])
	assert.True(t, tx.committed)
	assert.False(t, tx.rolledBack)
}

func TestPostgresFailedInsertRollsBack(t *testing.T) {
	tx := &fakeTx{failOn: 2}

	err := postgresOn(tx, nil).Record(context.Background(), testReport())
	assert.Error(t, err)
	assert.Len(t, tx.calls, 2)
	assert.True(t, tx.rolledBack)
	assert.False(t, tx.committed)

	assert.Error(t, postgresOn(nil, errors.New("conn refused")).Record(context.Background(), testReport()))
}

func TestWOWUpload(t *testing.T) {
	var got url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		got = req.URL.Query()
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	w := NewWOW("1234", "5678", "sensornode-test", 0)
	w.BaseURL = srv.URL + "/automaticreading?"

	require.NoError(t, w.Record(context.Background(), testReport()))

	assert.Equal(t, "1234", got.Get("siteid"))
	assert.Equal(t, "5678", got.Get("siteAuthenticationKey"))
	assert.Equal(t, "2026-03-01 10:32:55", got.Get("dateutc"))
	assert.Equal(t, "sensornode-test", got.Get("softwaretype"))

	num := func(key string) float64 {
		v, err := strconv.ParseFloat(got.Get(key), 64)
		require.NoError(t, err, key)
		return v
	}
	assert.InDelta(t, 68.0, num("tempf"), 1e-9)
	assert.InDelta(t, 50.0, num("dewptf"), 1e-9)
	assert.InDelta(t, 50.0, num("humidity"), 1e-9)
	assert.InDelta(t, 29.53, num("baromin"), 1e-9)
	assert.InDelta(t, 1.0, num("rainin"), 1e-9)
	assert.InDelta(t, 10.0, num("windspeedmph"), 1e-4)
	// no wind max in the report
	assert.Empty(t, got.Get("windgustmph"))
}

func TestWOWGustPrefersRollingGust(t *testing.T) {
	w := NewWOW("1234", "5678", "sensornode-test", 0)
	r := testReport()
	r.Add(WindMax, 40, 1)

	wd := w.prepData(r)
	require.NotNil(t, wd.WindGustMph)
	assert.InDelta(t, 40*0.621371, *wd.WindGustMph, 1e-9)

	r.AddExtra(WindGust, 20, 1)
	wd = w.prepData(r)
	assert.InDelta(t, 20*0.621371, *wd.WindGustMph, 1e-9)
}

func TestWOWRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	w := NewWOW("1234", "bad", "sensornode-test", 0)
	w.BaseURL = srv.URL + "/?"
	assert.Error(t, w.Record(context.Background(), testReport()))
}
