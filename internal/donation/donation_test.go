package donation

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct{ n int }

func (p *recordingPublisher) Publish(string, any) { p.n++ }

func quietService(t *testing.T, opts Options) *Service {
	t.Helper()
	opts.Logger = log.New(io.Discard, "", 0)
	svc, err := NewService(opts)
	require.NoError(t, err)
	return svc
}

func ptr[T any](v T) *T { return &v }

func TestDefaultStatus(t *testing.T) {
	svc := quietService(t, Options{})
	st := svc.Status()
	assert.Equal(t, 0.0, st.Total)
	assert.Equal(t, DefaultGoal, st.Goal)
	assert.Equal(t, DefaultURL, st.URL)
	assert.False(t, st.DevSimulation)
	require.Len(t, st.Milestones, 3)
	assert.Empty(t, st.GlobalUnlocks)
	assert.NotNil(t, st.GlobalUnlocks)
}

func TestMilestonesUnlockAtThreshold(t *testing.T) {
	svc := quietService(t, Options{})

	st := svc.Update(UpdateInput{Total: ptr(500.0)})
	assert.Equal(t, []string{"Golden Scarf Trail", "Festival Lights"}, st.GlobalUnlocks)
	assert.True(t, st.Milestones[1].Unlocked)
	assert.False(t, st.Milestones[2].Unlocked)
	assert.InDelta(t, 0.5, st.Progress(), 1e-9)

	st = svc.Update(UpdateInput{Total: ptr(-40.0), Goal: ptr(0.0)})
	assert.Equal(t, 0.0, st.Total)
	assert.Equal(t, 1.0, st.Goal)
	assert.Empty(t, st.GlobalUnlocks)
}

func TestSimulate(t *testing.T) {
	pub := &recordingPublisher{}
	svc := quietService(t, Options{Live: pub})

	_, err := svc.Simulate(50)
	assert.ErrorIs(t, err, ErrSimulationDisabled)

	svc.Update(UpdateInput{DevSimulation: ptr(true)})
	for _, bad := range []float64{0, -1, 10000.01} {
		_, err := svc.Simulate(bad)
		assert.ErrorIs(t, err, ErrInvalidAmount, "%v", bad)
	}

	st, err := svc.Simulate(10000)
	require.NoError(t, err)
	assert.Equal(t, 10000.0, st.Total)
	assert.Len(t, st.GlobalUnlocks, 3)
	assert.Equal(t, 1.0, st.Progress())
	assert.Equal(t, 2, pub.n, "one update and one simulation broadcast")
}

func TestFileRepoReloadsAndSeedsDefaults(t *testing.T) {
	dir := t.TempDir()
	repo, err := NewFileRepo(dir)
	require.NoError(t, err)

	svc := quietService(t, Options{Repo: repo, Defaults: State{Goal: 2500, URL: "https://give.example/jo", DevSimulation: true}})
	assert.Equal(t, 2500.0, svc.Status().Goal)
	_, err = svc.Simulate(300)
	require.NoError(t, err)

	again := quietService(t, Options{Repo: repo, Defaults: DefaultState()})
	st := again.Status()
	assert.Equal(t, 300.0, st.Total)
	assert.Equal(t, 2500.0, st.Goal, "saved state wins over defaults")
	assert.Equal(t, "https://give.example/jo", st.URL)
}

type brokenRepo struct{}

func (brokenRepo) Load() (State, bool, error) { return State{}, false, errors.New("disk gone") }
func (brokenRepo) Save(State) error           { return nil }

func TestLoadErrorIsReturned(t *testing.T) {
	_, err := NewService(Options{Repo: brokenRepo{}, Logger: log.New(io.Discard, "", 0)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk gone")
}

func TestHTTP(t *testing.T) {
	svc := quietService(t, Options{})
	h := NewHandler(svc)

	rr := httptest.NewRecorder()
	h.Simulate(rr, httptest.NewRequest(http.MethodPost, "/api/admin/simulate", strings.NewReader(`{"amount":25}`)))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "not enabled")

	rr = httptest.NewRecorder()
	h.Update(rr, httptest.NewRequest(http.MethodPost, "/api/admin/update", bytes.NewBufferString(`{"devSimulationEnabled":true,"donationTotalJOD":180}`)))
	require.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	h.Simulate(rr, httptest.NewRequest(http.MethodPost, "/api/admin/simulate", strings.NewReader(`{"amount":25}`)))
	require.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	h.Status(rr, httptest.NewRequest(http.MethodGet, "/api/status", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	var st Status
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &st))
	assert.Equal(t, 205.0, st.Total)
	assert.Equal(t, []string{"Golden Scarf Trail"}, st.GlobalUnlocks)

	rr = httptest.NewRecorder()
	h.Update(rr, httptest.NewRequest(http.MethodPost, "/api/admin/update", strings.NewReader(`{`)))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
