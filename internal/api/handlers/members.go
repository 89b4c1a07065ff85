package handlers

import (
	"encoding/base64"
	"net/http"
	"strconv"

	"github.com/Jidetireni/adyc-membership/internal/dto"
	"github.com/go-chi/chi/v5"
)

func (h *Handlers) RegisterMember(w http.ResponseWriter, r *http.Request) {
	var input dto.RegisterMemberInput
	if !h.decodeAndValidate(w, r, &input) {
		return
	}

	member, err := h.members.Register(r.Context(), input)
	if err != nil {
		h.errorResponse(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, member, nil)
}

func (h *Handlers) VerifyMember(w http.ResponseWriter, r *http.Request) {
	view, err := h.verification.VerifyPublic(r.Context(), chi.URLParam(r, "memberID"), r.URL.Query().Get("method"))
	if err != nil {
		h.errorResponse(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, view, nil)
}

// MemberQR serves the PNG directly, or base64 inside JSON with ?format=json.
func (h *Handlers) MemberQR(w http.ResponseWriter, r *http.Request) {
	qr, err := h.members.IssueQR(r.Context(), chi.URLParam(r, "memberID"))
	if err != nil {
		h.errorResponse(w, r, err)
		return
	}

	if r.URL.Query().Get("format") == "json" {
		h.writeJSON(w, http.StatusOK, envelope{
			"image":            "data:image/png;base64," + base64.StdEncoding.EncodeToString(qr.Image),
			"verification_url": qr.VerificationURL,
		}, nil)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(qr.Image)))
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(qr.Image); err != nil {
		h.logger.Error().Err(err).Msg("failed to write qr image")
	}
}

func (h *Handlers) MemberCard(w http.ResponseWriter, r *http.Request) {
	idCard, err := h.members.GenerateCard(r.Context(), chi.URLParam(r, "memberID"))
	if err != nil {
		h.errorResponse(w, r, err)
		return
	}

	h.writePDF(w, idCard)
}

func (h *Handlers) ReissueMemberCard(w http.ResponseWriter, r *http.Request) {
	adminEmail, ok := principalEmail(r)
	if !ok {
		h.unauthorizedError(w, r)
		return
	}

	idCard, err := h.members.ReissueCard(r.Context(), chi.URLParam(r, "memberID"), adminEmail)
	if err != nil {
		h.errorResponse(w, r, err)
		return
	}

	h.writePDF(w, idCard)
}

func (h *Handlers) writePDF(w http.ResponseWriter, idCard *dto.IDCard) {
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+idCard.Filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(idCard.Document)))
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(idCard.Document); err != nil {
		h.logger.Error().Err(err).Msg("failed to write id card")
	}
}

func (h *Handlers) ListMembers(w http.ResponseWriter, r *http.Request) {
	members, err := h.members.List(r.Context(), h.getPaginationParams(r))
	if err != nil {
		h.errorResponse(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, members, nil)
}

func (h *Handlers) MemberByID(w http.ResponseWriter, r *http.Request) {
	member, err := h.members.Get(r.Context(), chi.URLParam(r, "memberID"))
	if err != nil {
		h.errorResponse(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, member, nil)
}

func (h *Handlers) StaffVerifyMember(w http.ResponseWriter, r *http.Request) {
	adminEmail, ok := principalEmail(r)
	if !ok {
		h.unauthorizedError(w, r)
		return
	}

	view, err := h.verification.VerifyForStaff(r.Context(), chi.URLParam(r, "memberID"), adminEmail)
	if err != nil {
		h.errorResponse(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, view, nil)
}

func (h *Handlers) UpdateMemberPhoto(w http.ResponseWriter, r *http.Request) {
	adminEmail, ok := principalEmail(r)
	if !ok {
		h.unauthorizedError(w, r)
		return
	}

	var input dto.UpdatePhotoInput
	if !h.decodeAndValidate(w, r, &input) {
		return
	}

	member, err := h.members.ReplacePhoto(r.Context(), chi.URLParam(r, "memberID"), input, adminEmail)
	if err != nil {
		h.errorResponse(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, member, nil)
}

func (h *Handlers) SendMemberTestEmail(w http.ResponseWriter, r *http.Request) {
	if err := h.members.SendTestEmail(r.Context(), chi.URLParam(r, "memberID")); err != nil {
		h.errorResponse(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, envelope{"sent": true}, nil)
}
