package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uber-go/zap"
	"github.com/yulrizka/numbergame"
	"github.com/yulrizka/numbergame/model"
	"github.com/yulrizka/numbergame/qna"
	"github.com/yulrizka/numbergame/ticket"
)

func TestMain(m *testing.M) {
	quiet := zap.New(zap.NewTextEncoder(), zap.FatalLevel)
	SetLogger(quiet)
	numbergame.SetLogger(quiet)
	os.Exit(m.Run())
}

func newTestServer(t *testing.T, tickets ticket.Store) *httptest.Server {
	gen, err := qna.NewGenerator(qna.DefaultLabels, 1, 100, 0)
	require.NoError(t, err)
	game, err := numbergame.NewGame(numbergame.Config{
		Generator:        gen,
		Tickets:          tickets,
		ConsumeOnCorrect: true,
	})
	require.NoError(t, err)

	srv := httptest.NewServer(NewRouter(game, Options{CORSOrigins: []string{"http://localhost:3000"}}))
	t.Cleanup(srv.Close)
	return srv
}

func getQuestion(t *testing.T, srv *httptest.Server) (text, id string) {
	resp, err := http.Get(srv.URL + "/question")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	id = resp.Header.Get(HeaderGameID)
	require.NotEmpty(t, id, "question must carry a game id")
	return string(body), id
}

func validate(t *testing.T, srv *httptest.Server, id, text, sum string) (int, string) {
	v := url.Values{}
	v.Set("inputQuestion", text)
	v.Set("sum", sum)
	req, err := http.NewRequest(http.MethodGet, srv.URL+"/validate?"+v.Encode(), nil)
	require.NoError(t, err)
	if id != "" {
		req.Header.Set(HeaderGameID, id)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func sumOf(t *testing.T, text string) string {
	n, err := qna.ParseNumbers(text)
	require.NoError(t, err)
	return strconv.Itoa(qna.Sum(n))
}

func TestCorrectSum(t *testing.T) {
	srv := newTestServer(t, ticket.NewMemory(time.Minute))
	text, id := getQuestion(t, srv)

	status, body := validate(t, srv, id, text, sumOf(t, text))
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Thats Great", body)
}

func TestWrongSum(t *testing.T) {
	srv := newTestServer(t, ticket.NewMemory(time.Minute))
	text, id := getQuestion(t, srv)

	status, body := validate(t, srv, id, text, "0")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Thats Wrong. Plese Try Again", body)
}

func TestQuestionManipulated(t *testing.T) {
	srv := newTestServer(t, ticket.NewMemory(time.Minute))
	_, id := getQuestion(t, srv)

	status, body := validate(t, srv, id, "Here you go, solve the question: Please sum the numbers 1,1,1", "3")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Response is Tampered.", body)
}

func TestInvalidCorrelation(t *testing.T) {
	srv := newTestServer(t, ticket.NewMemory(time.Minute))
	text, _ := getQuestion(t, srv)

	status, body := validate(t, srv, "", text, sumOf(t, text))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Response is Tampered.", body)

	status, body = validate(t, srv, "100", text, sumOf(t, text))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Response is Tampered.", body)
}

func TestAnotherQuestionID(t *testing.T) {
	srv := newTestServer(t, ticket.NewMemory(time.Minute))
	text1, _ := getQuestion(t, srv)
	text2, id2 := getQuestion(t, srv)
	if text1 == text2 {
		t.Skip("both questions got the same numbers")
	}

	status, body := validate(t, srv, id2, text1, sumOf(t, text1))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Response is Tampered.", body)
}

func TestValidatePostForm(t *testing.T) {
	srv := newTestServer(t, ticket.NewMemory(time.Minute))
	text, id := getQuestion(t, srv)

	form := url.Values{"inputQuestion": {text}, "sum": {sumOf(t, text)}}
	req, err := http.NewRequest(http.MethodPost, srv.URL+"/validate", strings.NewReader(form.Encode()))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set(HeaderGameID, id)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Thats Great", string(body))
}

func TestStats(t *testing.T) {
	srv := newTestServer(t, ticket.NewMemory(time.Minute))
	text, id := getQuestion(t, srv)
	validate(t, srv, id, text, "0")
	validate(t, srv, id, text, sumOf(t, text))

	resp, err := http.Get(srv.URL + "/stats")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var stats model.Stats
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&stats))
	assert.Equal(t, model.Stats{
		numbergame.StatsIssued:          1,
		numbergame.StatsValidateWrong:   1,
		numbergame.StatsValidateCorrect: 1,
	}, stats)
}

func TestCORSExposesGameID(t *testing.T) {
	srv := newTestServer(t, ticket.NewMemory(time.Minute))

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/question", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:3000")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "http://localhost:3000", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Contains(t, strings.ToLower(resp.Header.Get("Access-Control-Expose-Headers")), HeaderGameID)
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, ticket.NewMemory(time.Minute))
	for _, path := range []string{"/healthz", "/readyz"} {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
	}
}

type brokenStore struct{ ticket.Store }

func (brokenStore) Put(ticket.Ticket) error { return errors.New("store unavailable") }

func (brokenStore) Get(string) (ticket.Ticket, error) {
	return ticket.Ticket{}, errors.New("store unavailable")
}

func TestStoreFailure(t *testing.T) {
	srv := newTestServer(t, brokenStore{ticket.NewMemory(time.Minute)})

	resp, err := http.Get(srv.URL + "/question")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Empty(t, resp.Header.Get(HeaderGameID))

	status, _ := validate(t, srv, "1", "1,2,3", "6")
	assert.Equal(t, http.StatusInternalServerError, status)
}
