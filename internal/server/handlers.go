package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/andreusxcarvalho/SplitTON/internal/middleware"
	"github.com/andreusxcarvalho/SplitTON/internal/models"
	"github.com/andreusxcarvalho/SplitTON/internal/service"
	"github.com/andreusxcarvalho/SplitTON/internal/settlement"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type registerRequest struct {
	Email string `json:"email"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorStatus(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.auth.Register(r.Context(), req.Email); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "OTP sent to email"})
}

type verifyRequest struct {
	Email       string `json:"email"`
	Code        string `json:"otp"`
	DisplayName string `json:"display_name"`
}

type verifyResponse struct {
	Token       string `json:"token"`
	UserID      string `json:"user_id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
}

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorStatus(w, http.StatusBadRequest, "invalid request body")
		return
	}
	token, profile, err := s.auth.Verify(r.Context(), req.Email, req.Code, req.DisplayName)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, verifyResponse{
		Token:       token,
		UserID:      profile.ID,
		Email:       profile.Email,
		DisplayName: profile.DisplayName,
	})
}

type lineItemDTO struct {
	ObligationID string          `json:"obligation_id"`
	Label        string          `json:"label"`
	Category     string          `json:"category,omitempty"`
	Amount       decimal.Decimal `json:"amount"`
	Direction    string          `json:"direction"`
}

type balanceDTO struct {
	CounterpartyID string          `json:"counterparty_id"`
	NetAmount      decimal.Decimal `json:"net_amount"`
	Items          []lineItemDTO   `json:"items"`
}

type outstandingResponse struct {
	OwedToUser []balanceDTO `json:"owed_to_user"`
	UserOwes   []balanceDTO `json:"user_owes"`
}

func toBalanceDTOs(balances []settlement.CounterpartyBalance) []balanceDTO {
	out := make([]balanceDTO, len(balances))
	for i, bal := range balances {
		items := make([]lineItemDTO, len(bal.Items))
		for j, item := range bal.Items {
			items[j] = lineItemDTO{
				ObligationID: item.ObligationID,
				Label:        item.Label,
				Category:     item.Category,
				Amount:       item.Amount,
				Direction:    string(item.Direction),
			}
		}
		out[i] = balanceDTO{
			CounterpartyID: bal.CounterpartyID,
			NetAmount:      bal.NetAmount,
			Items:          items,
		}
	}
	return out
}

func (s *Server) handleOutstanding(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	partitioned, err := s.settlements.Outstanding(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, outstandingResponse{
		OwedToUser: toBalanceDTOs(partitioned.OwedToUser),
		UserOwes:   toBalanceDTOs(partitioned.UserOwes),
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	totals, err := s.settlements.CategoryTotals(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, totals)
}

type obligationDTO struct {
	ID            string          `json:"id"`
	TransactionID string          `json:"transaction_id"`
	PayerID       string          `json:"payer_id"`
	PayeeID       string          `json:"payee_id"`
	Amount        decimal.Decimal `json:"amount"`
	Label         string          `json:"label"`
	Category      string          `json:"category,omitempty"`
	Status        string          `json:"status"`
	CreatedAt     int64           `json:"created_at"`
	PaidAt        int64           `json:"paid_at,omitempty"`
}

func toObligationDTO(o *models.Obligation) obligationDTO {
	return obligationDTO{
		ID:            o.ID,
		TransactionID: o.TransactionID,
		PayerID:       o.PayerID,
		PayeeID:       o.PayeeID,
		Amount:        o.Amount,
		Label:         o.Label,
		Category:      o.Category,
		Status:        string(o.Status),
		CreatedAt:     o.CreatedAt,
		PaidAt:        o.PaidAt,
	}
}

func (s *Server) handleSettle(w http.ResponseWriter, r *http.Request) {
	obligationID := chi.URLParam(r, "obligationID")
	userID := middleware.GetUserID(r.Context())

	settled, err := s.settlements.Settle(r.Context(), userID, obligationID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toObligationDTO(settled))
}

type invoiceResponse struct {
	InvoiceID int64  `json:"invoice_id"`
	PayURL    string `json:"pay_url"`
	Asset     string `json:"asset"`
	Amount    string `json:"amount"`
	Status    string `json:"status"`
}

func (s *Server) handleInvoice(w http.ResponseWriter, r *http.Request) {
	obligationID := chi.URLParam(r, "obligationID")
	userID := middleware.GetUserID(r.Context())

	invoice, err := s.settlements.CreateInvoice(r.Context(), userID, obligationID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, invoiceResponse{
		InvoiceID: invoice.InvoiceID,
		PayURL:    invoice.PayURL,
		Asset:     invoice.Asset,
		Amount:    invoice.Amount,
		Status:    invoice.Status,
	})
}

type friendDTO struct {
	ID        string `json:"id"`
	FriendID  string `json:"friend_user_id"`
	Nickname  string `json:"nickname"`
	CreatedAt int64  `json:"created_at"`
}

func (s *Server) handleListFriends(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	friends, err := s.friends.List(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]friendDTO, len(friends))
	for i, f := range friends {
		out[i] = friendDTO{ID: f.ID, FriendID: f.FriendID, Nickname: f.Nickname, CreatedAt: f.CreatedAt}
	}
	writeJSON(w, http.StatusOK, out)
}

type addFriendRequest struct {
	FriendID string `json:"friend_user_id"`
	Nickname string `json:"nickname"`
}

func (s *Server) handleAddFriend(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	var req addFriendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorStatus(w, http.StatusBadRequest, "invalid request body")
		return
	}
	friend, err := s.friends.Add(r.Context(), userID, req.FriendID, req.Nickname)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, friendDTO{
		ID: friend.ID, FriendID: friend.FriendID, Nickname: friend.Nickname, CreatedAt: friend.CreatedAt,
	})
}

func (s *Server) handleRemoveFriend(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	friendLinkID := chi.URLParam(r, "friendLinkID")
	if err := s.friends.Remove(r.Context(), userID, friendLinkID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Friend removed"})
}

type transactionDTO struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	SourceType  string          `json:"source_type"`
	SourcePath  string          `json:"source_path,omitempty"`
	CreatedAt   int64           `json:"created_at"`
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	txns, err := s.transactions.History(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]transactionDTO, len(txns))
	for i, t := range txns {
		out[i] = transactionDTO{
			ID:          t.ID,
			Description: t.Description,
			TotalAmount: t.TotalAmount,
			SourceType:  string(t.SourceType),
			SourcePath:  t.SourcePath,
			CreatedAt:   t.CreatedAt,
		}
	}
	writeJSON(w, http.StatusOK, out)
}

type recordObligationRequest struct {
	PayerID  string          `json:"payer_id"`
	PayeeID  string          `json:"payee_id"`
	Amount   decimal.Decimal `json:"amount"`
	Label    string          `json:"label"`
	Category string          `json:"category"`
}

type recordTransactionRequest struct {
	Description string                    `json:"description"`
	SourceType  string                    `json:"source_type"`
	SourcePath  string                    `json:"source_path"`
	Obligations []recordObligationRequest `json:"obligations"`
}

type recordTransactionResponse struct {
	TransactionID string          `json:"transaction_id"`
	Obligations   []obligationDTO `json:"obligations"`
}

func (s *Server) handleRecordTransaction(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	var req recordTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorStatus(w, http.StatusBadRequest, "invalid request body")
		return
	}

	in := service.RecordTransactionInput{
		Description: req.Description,
		SourceType:  models.SourceType(req.SourceType),
		SourcePath:  req.SourcePath,
	}
	for _, oi := range req.Obligations {
		in.Obligations = append(in.Obligations, service.ObligationInput{
			PayerID:  oi.PayerID,
			PayeeID:  oi.PayeeID,
			Amount:   oi.Amount,
			Label:    oi.Label,
			Category: oi.Category,
		})
	}

	txn, obligations, err := s.transactions.Record(r.Context(), userID, in)
	if err != nil {
		writeError(w, err)
		return
	}

	out := recordTransactionResponse{TransactionID: txn.ID}
	for _, o := range obligations {
		out.Obligations = append(out.Obligations, toObligationDTO(o))
	}
	writeJSON(w, http.StatusCreated, out)
}

type receiptResponse struct {
	SourcePath string `json:"source_path"`
	SourceType string `json:"source_type"`
}

func (s *Server) handleReceipt(w http.ResponseWriter, r *http.Request) {
	transactionID := chi.URLParam(r, "transactionID")
	txn, err := s.transactions.Receipt(r.Context(), transactionID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, receiptResponse{
		SourcePath: txn.SourcePath,
		SourceType: string(txn.SourceType),
	})
}
