package handlers

import (
	"net/http"

	"github.com/Jidetireni/adyc-membership/internal/dto"
)

func (h *Handlers) ListPosts(w http.ResponseWriter, r *http.Request) {
	h.listPosts(w, r, false)
}

func (h *Handlers) ListAllPosts(w http.ResponseWriter, r *http.Request) {
	h.listPosts(w, r, true)
}

func (h *Handlers) listPosts(w http.ResponseWriter, r *http.Request, includeDrafts bool) {
	posts, err := h.posts.List(r.Context(), includeDrafts, h.getPaginationParams(r))
	if err != nil {
		h.errorResponse(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, posts, nil)
}

func (h *Handlers) PostByID(w http.ResponseWriter, r *http.Request) {
	id, err := postIDParam(r)
	if err != nil {
		h.errorResponse(w, r, err)
		return
	}

	post, err := h.posts.Get(r.Context(), id, false)
	if err != nil {
		h.errorResponse(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, post, nil)
}

func (h *Handlers) CreatePost(w http.ResponseWriter, r *http.Request) {
	authorEmail, ok := principalEmail(r)
	if !ok {
		h.unauthorizedError(w, r)
		return
	}

	var input dto.CreatePostInput
	if !h.decodeAndValidate(w, r, &input) {
		return
	}

	post, err := h.posts.Create(r.Context(), input, authorEmail)
	if err != nil {
		h.errorResponse(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, post, nil)
}

func (h *Handlers) UpdatePost(w http.ResponseWriter, r *http.Request) {
	actorEmail, ok := principalEmail(r)
	if !ok {
		h.unauthorizedError(w, r)
		return
	}

	id, err := postIDParam(r)
	if err != nil {
		h.errorResponse(w, r, err)
		return
	}

	var input dto.UpdatePostInput
	if !h.decodeAndValidate(w, r, &input) {
		return
	}

	post, err := h.posts.Update(r.Context(), id, input, actorEmail)
	if err != nil {
		h.errorResponse(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, post, nil)
}

func (h *Handlers) DeletePost(w http.ResponseWriter, r *http.Request) {
	actorEmail, ok := principalEmail(r)
	if !ok {
		h.unauthorizedError(w, r)
		return
	}

	id, err := postIDParam(r)
	if err != nil {
		h.errorResponse(w, r, err)
		return
	}

	if err := h.posts.Delete(r.Context(), id, actorEmail); err != nil {
		h.errorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
