package api

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/Amanshah2829/fund-manager-test/internal/middleware"
	"github.com/Amanshah2829/fund-manager-test/internal/models"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user, err := s.auth.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	token, err := s.jwt.Generate(user)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{Token: token, Name: user.Name, Role: string(user.Role)})
}

type groupResponse struct {
	ID                 string          `json:"id"`
	Name               string          `json:"name"`
	ContributionAmount decimal.Decimal `json:"contributionAmount"`
	MemberCount        int             `json:"memberCount"`
	CurrentCycle       int             `json:"currentCycle"`
	Closed             bool            `json:"closed"`
	MemberIDs          []string        `json:"memberIds"`
	CreatedAt          int64           `json:"createdAt"`
}

func toGroupResponse(g *models.Group) groupResponse {
	return groupResponse{
		ID:                 g.ID,
		Name:               g.Name,
		ContributionAmount: g.ContributionAmount,
		MemberCount:        g.MemberCount,
		CurrentCycle:       g.CurrentCycle,
		Closed:             g.Closed(),
		MemberIDs:          g.MemberIDs,
		CreatedAt:          g.CreatedAt,
	}
}

type createGroupRequest struct {
	Name               string          `json:"name"`
	ContributionAmount decimal.Decimal `json:"contributionAmount"`
	MemberCount        int             `json:"memberCount"`
	MemberIDs          []string        `json:"memberIds"`
}

func (s *Server) handleCreateGroup(w http.ResponseWriter, r *http.Request) {
	var req createGroupRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if req.Name == "" || !req.ContributionAmount.IsPositive() || req.MemberCount <= 0 {
		writeMessage(w, http.StatusBadRequest, "name, positive contributionAmount and positive memberCount are required")
		return
	}

	group := &models.Group{
		Name:               req.Name,
		ContributionAmount: req.ContributionAmount,
		MemberCount:        req.MemberCount,
		MemberIDs:          req.MemberIDs,
		OwnerID:            middleware.GetUserID(r.Context()),
	}
	if err := s.engine.CreateGroup(r.Context(), group); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toGroupResponse(group))
}

func (s *Server) handleListGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := s.store.ListGroups(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]groupResponse, 0, len(groups))
	for _, g := range groups {
		out = append(out, toGroupResponse(g))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetGroup(w http.ResponseWriter, r *http.Request) {
	group, err := s.store.GetGroup(r.Context(), mux.Vars(r)["groupId"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toGroupResponse(group))
}

type addMemberRequest struct {
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	TelegramID string `json:"telegramId"`
}

func (s *Server) handleAddMember(w http.ResponseWriter, r *http.Request) {
	var req addMemberRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Name == "" {
		writeMessage(w, http.StatusBadRequest, "member name is required")
		return
	}

	user := models.NewUser(req.Name, req.Phone)
	user.TelegramID = req.TelegramID
	if err := s.store.CreateUser(r.Context(), user); err != nil {
		writeError(w, err)
		return
	}

	if err := s.engine.AddMember(r.Context(), mux.Vars(r)["groupId"], user.ID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"memberId": user.ID})
}

// periodFromRequest reads the month/year pair every ledger route carries.
func periodFromRequest(month string, year int) models.Period {
	return models.Period{Month: month, Year: year}
}

type paymentRequest struct {
	GroupID  string `json:"groupId"`
	MemberID string `json:"memberId"`
	Month    string `json:"month"`
	Year     int    `json:"year"`
}

type paymentResponse struct {
	ID        string          `json:"id"`
	GroupID   string          `json:"groupId"`
	MemberID  string          `json:"memberId"`
	Amount    decimal.Decimal `json:"amount"`
	Month     string          `json:"month"`
	Year      int             `json:"year"`
	CreatedAt int64           `json:"createdAt"`
	Warning   string          `json:"warning,omitempty"`
}

func (s *Server) handleRecordPayment(w http.ResponseWriter, r *http.Request) {
	var req paymentRequest
	if !decodeBody(w, r, &req) {
		return
	}

	res, err := s.engine.RecordContribution(r.Context(), req.GroupID, req.MemberID, periodFromRequest(req.Month, req.Year))
	if err != nil {
		writeError(w, err)
		return
	}

	c := res.Contribution
	resp := paymentResponse{
		ID:        c.ID,
		GroupID:   c.GroupID,
		MemberID:  c.MemberID,
		Amount:    c.Amount,
		Month:     c.Period.Month,
		Year:      c.Period.Year,
		CreatedAt: c.CreatedAt,
	}
	if len(res.Warnings) > 0 {
		resp.Warning = res.Warnings[0]
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListPayments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	year, err := strconv.Atoi(q.Get("year"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "year must be an integer")
		return
	}

	contributions, err := s.store.ListContributions(r.Context(), q.Get("groupId"), periodFromRequest(q.Get("month"), year))
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]paymentResponse, 0, len(contributions))
	for _, c := range contributions {
		out = append(out, paymentResponse{
			ID:        c.ID,
			GroupID:   c.GroupID,
			MemberID:  c.MemberID,
			Amount:    c.Amount,
			Month:     c.Period.Month,
			Year:      c.Period.Year,
			CreatedAt: c.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

type bulkPaymentRequest struct {
	GroupID   string   `json:"groupId"`
	MemberIDs []string `json:"memberIds"`
	Month     string   `json:"month"`
	Year      int      `json:"year"`
}

type bulkPaymentResponse struct {
	Message         string            `json:"message"`
	SuccessfulCount int               `json:"successfulCount"`
	Failures        map[string]string `json:"failures,omitempty"`
	Warnings        []string          `json:"warnings,omitempty"`
}

func (s *Server) handleBulkPayments(w http.ResponseWriter, r *http.Request) {
	var req bulkPaymentRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if len(req.MemberIDs) == 0 {
		writeMessage(w, http.StatusBadRequest, "memberIds is required")
		return
	}

	res, err := s.engine.BulkRecordContributions(r.Context(), req.GroupID, req.MemberIDs, periodFromRequest(req.Month, req.Year))
	if err != nil {
		writeError(w, err)
		return
	}

	resp := bulkPaymentResponse{
		Message:         "Bulk payments processed.",
		SuccessfulCount: res.Recorded,
		Warnings:        res.Warnings,
	}
	if len(res.Failures) > 0 {
		resp.Failures = make(map[string]string, len(res.Failures))
		for _, f := range res.Failures {
			resp.Failures[f.MemberID] = f.Err.Error()
		}
	}
	writeJSON(w, http.StatusCreated, resp)
}

type withdrawalRequest struct {
	WinnerID string `json:"winnerId"`
	Kind     string `json:"kind"`
	// BidAmount is required for auctions; a missing bid is rejected
	// rather than read as zero.
	BidAmount *decimal.Decimal `json:"bidAmount"`
	Month     string           `json:"month"`
	Year      int              `json:"year"`
}

type withdrawalResponse struct {
	ID                string          `json:"id"`
	GroupID           string          `json:"groupId"`
	WinnerID          string          `json:"winnerId"`
	Kind              string          `json:"kind"`
	BidAmount         decimal.Decimal `json:"bidAmount"`
	Payout            decimal.Decimal `json:"payout"`
	Commission        decimal.Decimal `json:"commission"`
	DividendPerMember decimal.Decimal `json:"dividendPerMember"`
	Month             string          `json:"month"`
	Year              int             `json:"year"`
	CreatedAt         int64           `json:"createdAt"`
	Warnings          []string        `json:"warnings,omitempty"`
}

func toWithdrawalResponse(st *models.Settlement, warnings []string) withdrawalResponse {
	return withdrawalResponse{
		ID:                st.ID,
		GroupID:           st.GroupID,
		WinnerID:          st.WinnerID,
		Kind:              string(st.Kind),
		BidAmount:         st.BidAmount,
		Payout:            st.Payout,
		Commission:        st.Commission,
		DividendPerMember: st.DividendPerMember,
		Month:             st.Period.Month,
		Year:              st.Period.Year,
		CreatedAt:         st.CreatedAt,
		Warnings:          warnings,
	}
}

func (s *Server) handleRecordWithdrawal(w http.ResponseWriter, r *http.Request) {
	var req withdrawalRequest
	if !decodeBody(w, r, &req) {
		return
	}

	kind := models.SettlementKind(req.Kind)
	if kind == "" {
		kind = models.SettlementAuction
	}
	if kind != models.SettlementAuction && kind != models.SettlementFCFS {
		writeMessage(w, http.StatusBadRequest, "kind must be 'auction' or 'fcfs'")
		return
	}

	bid := decimal.Zero
	if req.BidAmount != nil {
		bid = *req.BidAmount
	} else if kind == models.SettlementAuction {
		writeMessage(w, http.StatusBadRequest, "bidAmount is required for auction settlements")
		return
	}

	res, err := s.engine.RecordSettlement(r.Context(), mux.Vars(r)["groupId"], req.WinnerID, kind, bid, periodFromRequest(req.Month, req.Year))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toWithdrawalResponse(res.Settlement, res.Warnings))
}

func (s *Server) handleListWithdrawals(w http.ResponseWriter, r *http.Request) {
	settlements, err := s.store.ListSettlements(r.Context(), mux.Vars(r)["groupId"])
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]withdrawalResponse, 0, len(settlements))
	for _, st := range settlements {
		out = append(out, toWithdrawalResponse(st, nil))
	}
	writeJSON(w, http.StatusOK, out)
}

type nextCycleResponse struct {
	Message               string `json:"message"`
	CurrentCycle          int    `json:"currentCycle"`
	Closed                bool   `json:"closed"`
	PreviousPeriodSettled bool   `json:"previousPeriodSettled"`
}

func (s *Server) handleNextCycle(w http.ResponseWriter, r *http.Request) {
	res, err := s.engine.AdvanceCycle(r.Context(), mux.Vars(r)["groupId"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nextCycleResponse{
		Message:               "Cycle advanced successfully",
		CurrentCycle:          res.CurrentCycle,
		Closed:                res.Closed,
		PreviousPeriodSettled: res.PreviousPeriodSettled,
	})
}

type duesResponse struct {
	AmountDue    decimal.Decimal `json:"amountDue"`
	LastDividend decimal.Decimal `json:"lastDividend"`
	Paid         bool            `json:"paid"`
}

func (s *Server) handleGetDues(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	year, err := strconv.Atoi(q.Get("year"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "year must be an integer")
		return
	}

	res, err := s.engine.AmountDue(r.Context(), mux.Vars(r)["groupId"], q.Get("member"), periodFromRequest(q.Get("month"), year))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, duesResponse{
		AmountDue:    res.AmountDue,
		LastDividend: res.LastDividend,
		Paid:         res.Paid,
	})
}

func (s *Server) handleListNotificationLogs(w http.ResponseWriter, r *http.Request) {
	limit := 100
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			writeMessage(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	logs, err := s.store.ListNotificationLogs(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, logs)
}
