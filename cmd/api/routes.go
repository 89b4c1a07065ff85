package main

import (
	"github.com/Jidetireni/adyc-membership/internal/constants"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) router() {
	s.Factory.Router.Use(middleware.RequestID)
	s.Factory.Router.Use(middleware.RealIP)
	s.Factory.Router.Use(s.Factory.Middleware.LoggerMiddleware)
	s.Factory.Router.Use(middleware.Recoverer)

	s.Factory.Router.Handle("/metrics", promhttp.Handler())

	s.Factory.Router.Route("/api/v1", func(r chi.Router) {
		r.Get("/healthz", s.Handlers.HealthCheckHandler)
		r.Post("/login", s.Handlers.Login)

		r.Route("/members", func(r chi.Router) {
			r.Post("/", s.Handlers.RegisterMember)
			r.Get("/{memberID}/verify", s.Handlers.VerifyMember)
			r.Get("/{memberID}/qr", s.Handlers.MemberQR)
			r.Get("/{memberID}/card", s.Handlers.MemberCard)
		})

		r.Route("/posts", func(r chi.Router) {
			r.Get("/", s.Handlers.ListPosts)
			r.Get("/{postID}", s.Handlers.PostByID)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(s.Factory.Middleware.RequireAuth)
			r.Use(s.Factory.Middleware.RequireRole(constants.RoleAdmin))

			r.Route("/members", func(r chi.Router) {
				r.Get("/", s.Handlers.ListMembers)
				r.Get("/{memberID}", s.Handlers.MemberByID)
				r.Get("/{memberID}/verify", s.Handlers.StaffVerifyMember)
				r.Put("/{memberID}/photo", s.Handlers.UpdateMemberPhoto)
				r.Post("/{memberID}/test-email", s.Handlers.SendMemberTestEmail)
				r.Post("/{memberID}/card", s.Handlers.ReissueMemberCard)
			})

			r.Get("/activity-logs", s.Handlers.ListActivityLogs)

			r.Route("/posts", func(r chi.Router) {
				r.Get("/", s.Handlers.ListAllPosts)
				r.Post("/", s.Handlers.CreatePost)
				r.Put("/{postID}", s.Handlers.UpdatePost)
				r.Delete("/{postID}", s.Handlers.DeletePost)
			})
		})
	})
}
