package httpapi_test

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending-engine/lending/engine"
	"github.com/AntonStoeckl/library-lending-engine/lending/httpapi"
	"github.com/AntonStoeckl/library-lending-engine/lending/slip"
	"github.com/AntonStoeckl/library-lending-engine/testutil/fixture"
)

const (
	admin     = "librarian"
	testKey   = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"
	jsonBody  = "application/json"
	apiPrefix = "/api/v1"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type envelope[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Error   string `json:"error"`
}

type book struct {
	BookID          string `json:"bookId"`
	Title           string `json:"title"`
	TotalCopies     int    `json:"totalCopies"`
	AvailableCopies int    `json:"availableCopies"`
}

type loan struct {
	LoanID     string `json:"loanId"`
	BookID     string `json:"bookId"`
	BorrowerID string `json:"borrowerId"`
	Status     string `json:"status"`
	HasSlip    bool   `json:"hasSlip"`
	Book       *book  `json:"book"`
}

type memberPoints struct {
	MemberID string `json:"memberId"`
	Points   int    `json:"points"`
}

type slipIssued struct {
	Loan  loan                `json:"loan"`
	Token string              `json:"token"`
	Slip  jsoniter.RawMessage `json:"slip"`
}

func givenServer(t *testing.T, opts ...httpapi.Option) *httpapi.Server {
	t.Helper()

	now := func() time.Time { return fixture.Now }

	issuer, err := slip.NewIssuer(testKey, 24*time.Hour, slip.WithClock(now))
	require.NoError(t, err)

	lending := engine.New(
		fixture.GivenEventStore(t),
		engine.WithClock(now),
		engine.WithClaimIssuer(issuer),
	)

	return httpapi.NewServer(lending, slog.New(slog.NewTextHandler(io.Discard, nil)),
		append([]httpapi.Option{httpapi.WithSlipRenderer(issuer)}, opts...)...)
}

func givenRequest(method, path, memberID string, isAdmin bool, body string) *http.Request {
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}

	req := httptest.NewRequest(method, apiPrefix+path, reader)
	if body != "" {
		req.Header.Set("Content-Type", jsonBody)
	}

	if memberID != "" {
		req.Header.Set("X-Member-ID", memberID)
	}

	if isAdmin {
		req.Header.Set("X-Member-Role", "admin")
	}

	return req
}

func serve(s *httpapi.Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	return rec
}

func decodeEnvelope[T any](t *testing.T, rec *httptest.ResponseRecorder) envelope[T] {
	t.Helper()

	var env envelope[T]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), "Should return a JSON envelope")

	return env
}

func givenBookAdded(t *testing.T, s *httpapi.Server, totalCopies int) book {
	t.Helper()

	body := `{"title":"Dune","author":"Frank Herbert","category":"Fiction","totalCopies":` +
		strconv.Itoa(totalCopies) + `}`

	rec := serve(s, givenRequest(http.MethodPost, "/books", admin, true, body))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	return decodeEnvelope[book](t, rec).Data
}

func givenBorrowedViaAPI(t *testing.T, s *httpapi.Server, bookID, memberID string) loan {
	t.Helper()

	rec := serve(s, givenRequest(http.MethodPost, "/books/"+bookID+"/borrow", memberID, false, ""))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	return decodeEnvelope[loan](t, rec).Data
}

func Test_Server_Health(t *testing.T) {
	// arrange
	s := givenServer(t)

	for _, path := range []string{"/health", apiPrefix + "/health"} {
		// act
		rec := serve(s, httptest.NewRequest(http.MethodGet, path, nil))

		// assert
		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.True(t, decodeEnvelope[map[string]string](t, rec).Success)
	}
}

func Test_Server_AddAndGetBook(t *testing.T) {
	// arrange
	s := givenServer(t)

	// act
	added := givenBookAdded(t, s, 3)
	rec := serve(s, givenRequest(http.MethodGet, "/books/"+added.BookID, "", false, ""))

	// assert
	require.Equal(t, http.StatusOK, rec.Code)
	fetched := decodeEnvelope[book](t, rec).Data
	assert.Equal(t, added.BookID, fetched.BookID)
	assert.Equal(t, "Dune", fetched.Title)
	assert.Equal(t, 3, fetched.TotalCopies)
	assert.Equal(t, 3, fetched.AvailableCopies)
}

func Test_Server_ErrorStatus(t *testing.T) { //nolint:funlen
	s := givenServer(t)
	added := givenBookAdded(t, s, 1)
	unknownID := fixture.GivenUniqueID(t).String()

	testCases := []struct {
		description string
		request     *http.Request
		wantStatus  int
	}{
		{
			description: "anonymous borrow",
			request:     givenRequest(http.MethodPost, "/books/"+added.BookID+"/borrow", "", false, ""),
			wantStatus:  http.StatusUnauthorized,
		},
		{
			description: "member adds a book",
			request:     givenRequest(http.MethodPost, "/books", "alice", false, `{"title":"Dune","totalCopies":1}`),
			wantStatus:  http.StatusForbidden,
		},
		{
			description: "missing title",
			request:     givenRequest(http.MethodPost, "/books", admin, true, `{"totalCopies":1}`),
			wantStatus:  http.StatusBadRequest,
		},
		{
			description: "unknown field",
			request:     givenRequest(http.MethodPost, "/books", admin, true, `{"title":"Dune","isbn":"x"}`),
			wantStatus:  http.StatusBadRequest,
		},
		{
			description: "malformed book id",
			request:     givenRequest(http.MethodGet, "/books/no-such-book", "", false, ""),
			wantStatus:  http.StatusNotFound,
		},
		{
			description: "unknown book",
			request:     givenRequest(http.MethodGet, "/books/"+unknownID, "", false, ""),
			wantStatus:  http.StatusNotFound,
		},
		{
			description: "reserve an available book",
			request:     givenRequest(http.MethodPost, "/books/"+added.BookID+"/reservations", "alice", false, ""),
			wantStatus:  http.StatusConflict,
		},
		{
			description: "invalid renewal decision",
			request:     givenRequest(http.MethodPost, "/loans/"+unknownID+"/renewal/decision", admin, true, `{"decision":"maybe"}`),
			wantStatus:  http.StatusBadRequest,
		},
		{
			description: "points of another member",
			request:     givenRequest(http.MethodGet, "/members/bob/points", "alice", false, ""),
			wantStatus:  http.StatusForbidden,
		},
		{
			description: "non numeric leaderboard size",
			request:     givenRequest(http.MethodGet, "/leaderboard?size=ten", "", false, ""),
			wantStatus:  http.StatusBadRequest,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			// act
			rec := serve(s, tc.request)

			// assert
			assert.Equal(t, tc.wantStatus, rec.Code, "Should map the error to its status code")
			env := decodeEnvelope[any](t, rec)
			assert.False(t, env.Success)
			assert.NotEmpty(t, env.Error)
		})
	}
}

func Test_Server_BorrowLastCopy(t *testing.T) {
	// arrange
	s := givenServer(t)
	added := givenBookAdded(t, s, 1)

	// act
	lent := givenBorrowedViaAPI(t, s, added.BookID, "alice")
	rec := serve(s, givenRequest(http.MethodPost, "/books/"+added.BookID+"/borrow", "bob", false, ""))

	// assert
	assert.Equal(t, "alice", lent.BorrowerID)
	assert.Equal(t, "Active", lent.Status)
	assert.Equal(t, http.StatusConflict, rec.Code, "Should reject borrowing without available copies")
}

func Test_Server_GetLoan_OnlyForBorrowerOrAdmin(t *testing.T) {
	// arrange
	s := givenServer(t)
	added := givenBookAdded(t, s, 1)
	lent := givenBorrowedViaAPI(t, s, added.BookID, "alice")

	// act
	byBorrower := serve(s, givenRequest(http.MethodGet, "/loans/"+lent.LoanID, "alice", false, ""))
	byOther := serve(s, givenRequest(http.MethodGet, "/loans/"+lent.LoanID, "bob", false, ""))
	byAdmin := serve(s, givenRequest(http.MethodGet, "/loans/"+lent.LoanID, admin, true, ""))

	// assert
	require.Equal(t, http.StatusOK, byBorrower.Code)
	fetched := decodeEnvelope[loan](t, byBorrower).Data
	require.NotNil(t, fetched.Book)
	assert.Equal(t, added.BookID, fetched.Book.BookID)
	assert.Equal(t, 0, fetched.Book.AvailableCopies)
	assert.Equal(t, http.StatusForbidden, byOther.Code)
	assert.Equal(t, http.StatusOK, byAdmin.Code)
}

func Test_Server_SlipAndReturnByClaim(t *testing.T) {
	// arrange
	s := givenServer(t)
	added := givenBookAdded(t, s, 1)
	lent := givenBorrowedViaAPI(t, s, added.BookID, "alice")

	// act
	issued := serve(s, givenRequest(http.MethodPost, "/loans/"+lent.LoanID+"/slip", "alice", false, ""))
	require.Equal(t, http.StatusCreated, issued.Code, issued.Body.String())
	slipData := decodeEnvelope[slipIssued](t, issued).Data

	returned := serve(s, givenRequest(http.MethodPost, "/loans/return-by-claim", admin, true,
		`{"claimToken":"`+slipData.Token+`"}`))

	// assert
	assert.NotEmpty(t, slipData.Token)
	assert.True(t, slipData.Loan.HasSlip)
	assert.Contains(t, string(slipData.Slip), lent.LoanID, "Should render the slip for the loan")

	require.Equal(t, http.StatusOK, returned.Code, returned.Body.String())
	assert.Equal(t, "Returned", decodeEnvelope[loan](t, returned).Data.Status)
}

func Test_Server_PointsAndLeaderboard(t *testing.T) {
	// arrange
	s := givenServer(t)
	added := givenBookAdded(t, s, 2)
	givenBorrowedViaAPI(t, s, added.BookID, "alice")

	// act
	points := serve(s, givenRequest(http.MethodGet, "/members/alice/points", "alice", false, ""))
	board := serve(s, givenRequest(http.MethodGet, "/leaderboard?size=1", "", false, ""))

	// assert
	require.Equal(t, http.StatusOK, points.Code)
	assert.Equal(t, 10, decodeEnvelope[memberPoints](t, points).Data.Points)

	require.Equal(t, http.StatusOK, board.Code)
	entries := decodeEnvelope[[]memberPoints](t, board).Data
	require.Len(t, entries, 1)
	assert.Equal(t, "alice", entries[0].MemberID)
}

func Test_Server_RateLimit(t *testing.T) {
	// arrange
	s := givenServer(t, httpapi.WithRateLimit(0.001, 2))

	// act
	first := serve(s, givenRequest(http.MethodGet, "/leaderboard", "alice", false, ""))
	second := serve(s, givenRequest(http.MethodGet, "/leaderboard", "alice", false, ""))
	third := serve(s, givenRequest(http.MethodGet, "/leaderboard", "alice", false, ""))
	otherMember := serve(s, givenRequest(http.MethodGet, "/leaderboard", "bob", false, ""))

	// assert
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, http.StatusTooManyRequests, third.Code, "Should reject requests beyond the burst")
	assert.Equal(t, "1", third.Header().Get("Retry-After"))
	assert.Equal(t, http.StatusOK, otherMember.Code, "Should keep one bucket per member")
}

func Test_Server_RateLimit_AnonymousCallerAcrossConnections(t *testing.T) {
	// arrange
	s := givenServer(t, httpapi.WithRateLimit(1, 2))
	limited := 0

	// act
	for port := 40000; port < 40050; port++ {
		req := givenRequest(http.MethodGet, "/leaderboard", "", false, "")
		req.RemoteAddr = "203.0.113.7:" + strconv.Itoa(port)

		if serve(s, req).Code == http.StatusTooManyRequests {
			limited++
		}
	}

	// assert
	assert.GreaterOrEqual(t, limited, 45, "Should share one bucket across the ports of one client IP")
}

type donation struct {
	DonationID string `json:"donationId"`
	DonorID    string `json:"donorId"`
	Title      string `json:"title"`
	Status     string `json:"status"`
	BookID     string `json:"bookId"`
}

type stats struct {
	Books       int `json:"books"`
	ActiveLoans int `json:"activeLoans"`
	Overdue     int `json:"overdue"`
	TopBooks    []struct {
		BookID  string `json:"bookId"`
		Borrows int    `json:"borrows"`
	} `json:"topBooks"`
}

func Test_Server_DonationWorkflow(t *testing.T) { //nolint:funlen
	// arrange
	s := givenServer(t)
	body := `{"title":"Emma","author":"Jane Austen","description":"first edition"}`

	// act
	submitRec := serve(s, givenRequest(http.MethodPost, "/donations", "dora", false, body))
	submitted := decodeEnvelope[donation](t, submitRec).Data
	anonymousRec := serve(s, givenRequest(http.MethodPost, "/donations", "", false, body))
	memberListRec := serve(s, givenRequest(http.MethodGet, "/donations/pending", "dora", false, ""))
	pendingRec := serve(s, givenRequest(http.MethodGet, "/donations/pending", admin, true, ""))
	approveRec := serve(s, givenRequest(http.MethodPost, "/donations/"+submitted.DonationID+"/approve", admin, true, ""))
	declineRec := serve(s, givenRequest(http.MethodPost, "/donations/"+submitted.DonationID+"/decline", admin, true, ""))
	pointsRec := serve(s, givenRequest(http.MethodGet, "/members/dora/points", "dora", false, ""))

	// assert
	require.Equal(t, http.StatusCreated, submitRec.Code, submitRec.Body.String())
	assert.Equal(t, "dora", submitted.DonorID, "Should take the donor from the caller")
	assert.Equal(t, "Pending", submitted.Status)
	assert.Equal(t, http.StatusUnauthorized, anonymousRec.Code)
	assert.Equal(t, http.StatusForbidden, memberListRec.Code)

	require.Equal(t, http.StatusOK, pendingRec.Code)
	pending := decodeEnvelope[[]donation](t, pendingRec).Data
	require.Len(t, pending, 1)
	assert.Equal(t, submitted.DonationID, pending[0].DonationID)

	require.Equal(t, http.StatusCreated, approveRec.Code, approveRec.Body.String())
	assert.Equal(t, "Emma", decodeEnvelope[book](t, approveRec).Data.Title, "Should catalog the submitted title")
	assert.Equal(t, http.StatusConflict, declineRec.Code, "Should not decline an approved donation")
	assert.Equal(t, 50, decodeEnvelope[memberPoints](t, pointsRec).Data.Points)
}

func Test_Server_DeclineDonation(t *testing.T) {
	// arrange
	s := givenServer(t)
	submitRec := serve(s, givenRequest(http.MethodPost, "/donations", "dora", false, `{"title":"Emma"}`))
	require.Equal(t, http.StatusCreated, submitRec.Code, submitRec.Body.String())
	donationID := decodeEnvelope[donation](t, submitRec).Data.DonationID

	// act
	declineRec := serve(s, givenRequest(http.MethodPost, "/donations/"+donationID+"/decline", admin, true, ""))
	unknownRec := serve(s, givenRequest(http.MethodPost, "/donations/no-such-donation/approve", admin, true, ""))

	// assert
	require.Equal(t, http.StatusOK, declineRec.Code, declineRec.Body.String())
	assert.Equal(t, "Declined", decodeEnvelope[donation](t, declineRec).Data.Status)
	assert.Equal(t, http.StatusNotFound, unknownRec.Code)
}

func Test_Server_LendingStats(t *testing.T) {
	// arrange
	s := givenServer(t)
	b := givenBookAdded(t, s, 2)
	givenBorrowedViaAPI(t, s, b.BookID, "alice")

	// act
	rec := serve(s, givenRequest(http.MethodGet, "/stats", admin, true, ""))
	memberRec := serve(s, givenRequest(http.MethodGet, "/stats", "alice", false, ""))

	// assert
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	result := decodeEnvelope[stats](t, rec).Data
	assert.Equal(t, 1, result.Books)
	assert.Equal(t, 1, result.ActiveLoans)
	assert.Zero(t, result.Overdue)
	require.Len(t, result.TopBooks, 1)
	assert.Equal(t, b.BookID, result.TopBooks[0].BookID)
	assert.Equal(t, http.StatusForbidden, memberRec.Code)
}
