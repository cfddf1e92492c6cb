// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

//go:build integration

package auth_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/gatehouse/gatehouse/internal/auth"
)

var _ = Describe("Credential lifecycle", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
		truncateAll(ctx, env.pool)
	})

	Describe("Registration", func() {
		It("stores a user and retrieves it by username", func() {
			user, err := env.Users.Register(ctx, "alice", "s3cret", auth.RoleCustomer)
			Expect(err).NotTo(HaveOccurred())

			got, err := env.Users.GetByUsername(ctx, "alice")
			Expect(err).NotTo(HaveOccurred())
			Expect(got.ID).To(Equal(user.ID))
			Expect(got.Role).To(Equal(auth.RoleCustomer))
		})

		It("defaults the empty role to customer", func() {
			user, err := env.Users.Register(ctx, "bob", "s3cret", "")
			Expect(err).NotTo(HaveOccurred())
			Expect(user.Role).To(Equal(auth.RoleCustomer))
		})

		It("rejects a duplicate username", func() {
			_, err := env.Users.Register(ctx, "carol", "s3cret", auth.RoleEmployee)
			Expect(err).NotTo(HaveOccurred())

			_, err = env.Users.Register(ctx, "carol", "other", auth.RoleAdmin)
			Expect(err).To(MatchError(auth.ErrUsernameTaken))
		})

		It("treats usernames as case-sensitive", func() {
			_, err := env.Users.Register(ctx, "Dave", "s3cret", auth.RoleCustomer)
			Expect(err).NotTo(HaveOccurred())

			_, err = env.Users.GetByUsername(ctx, "dave")
			Expect(err).To(MatchError(auth.ErrNotFound))

			available, err := env.Users.UsernameAvailable(ctx, "dave")
			Expect(err).NotTo(HaveOccurred())
			Expect(available).To(BeTrue())
		})
	})

	Describe("Password verification", func() {
		It("accepts the original password and rejects others", func() {
			user, err := env.Users.Register(ctx, "erin", "correct horse", auth.RoleCustomer)
			Expect(err).NotTo(HaveOccurred())

			stored, err := env.Users.GetByUsername(ctx, "erin")
			Expect(err).NotTo(HaveOccurred())
			Expect(env.Users.CheckPassword(stored, "correct horse")).To(BeTrue())
			Expect(env.Users.CheckPassword(stored, "battery staple")).To(BeFalse())
			Expect(stored.PasswordHash).To(Equal(user.PasswordHash))
		})

		It("salts each credential independently", func() {
			first, err := env.Users.Register(ctx, "frank", "same password", auth.RoleCustomer)
			Expect(err).NotTo(HaveOccurred())
			second, err := env.Users.Register(ctx, "grace", "same password", auth.RoleCustomer)
			Expect(err).NotTo(HaveOccurred())

			Expect(first.Salt).NotTo(Equal(second.Salt))
			Expect(first.PasswordHash).NotTo(Equal(second.PasswordHash))
		})
	})
})

var _ = Describe("Session lifecycle", func() {
	var (
		ctx  context.Context
		user *auth.User
	)

	BeforeEach(func() {
		ctx = context.Background()
		truncateAll(ctx, env.pool)

		var err error
		user, err = env.Users.Register(ctx, "holder", "s3cret", auth.RoleCustomer)
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("Create", func() {
		It("applies the default TTL when no expire is given", func() {
			session, err := env.Sessions.Create(ctx, "holder", time.Time{})
			Expect(err).NotTo(HaveOccurred())
			Expect(session.UserID).To(Equal(user.ID))
			Expect(session.Expire).To(BeTemporally("~", time.Now().Add(auth.DefaultSessionTTL), 5*time.Second))
		})

		It("fails for an unknown username", func() {
			_, err := env.Sessions.Create(ctx, "nobody", time.Time{})
			Expect(err).To(MatchError(auth.ErrNotFound))
		})
	})

	Describe("GetByID", func() {
		It("returns a live session", func() {
			session, err := env.Sessions.Create(ctx, "holder", time.Time{})
			Expect(err).NotTo(HaveOccurred())

			got, err := env.Sessions.GetByID(ctx, session.ID.String())
			Expect(err).NotTo(HaveOccurred())
			Expect(got.ID).To(Equal(session.ID))
			Expect(got.Expire.Equal(session.Expire)).To(BeTrue())
		})

		It("evicts an expired session and reports it absent", func() {
			session, err := env.Sessions.Create(ctx, "holder", time.Now().Add(time.Second))
			Expect(err).NotTo(HaveOccurred())

			// Wait out the short TTL rather than reaching into the store
			Eventually(func() error {
				_, err := env.Sessions.GetByID(ctx, session.ID.String())
				return err
			}, 5*time.Second, 200*time.Millisecond).Should(MatchError(auth.ErrNotFound))

			// The eviction removed the row; a second lookup behaves the same
			_, err = env.Sessions.GetByID(ctx, session.ID.String())
			Expect(err).To(MatchError(auth.ErrNotFound))
			_, err = env.SessionRepo.GetByID(ctx, session.ID)
			Expect(err).To(MatchError(auth.ErrNotFound))
		})

		It("rejects a malformed id without touching the store", func() {
			_, err := env.Sessions.GetByID(ctx, "not-a-uuid")
			Expect(err).To(MatchError(auth.ErrInvalidID))
		})
	})

	Describe("View", func() {
		It("exposes the expiry as epoch seconds and no credential material", func() {
			expire := time.Now().Add(time.Hour).Truncate(time.Second)
			session, err := env.Sessions.Create(ctx, "holder", expire)
			Expect(err).NotTo(HaveOccurred())

			view, err := env.Sessions.View(ctx, session)
			Expect(err).NotTo(HaveOccurred())
			Expect(view.ID).To(Equal(session.ID.String()))
			Expect(view.User.Username).To(Equal("holder"))
			Expect(view.Expire).To(Equal(expire.Unix()))
		})
	})

	Describe("Sweep", func() {
		It("removes only expired sessions", func() {
			live, err := env.Sessions.Create(ctx, "holder", time.Now().Add(time.Hour))
			Expect(err).NotTo(HaveOccurred())

			stale, err := auth.NewSession(user.ID, time.Now().Add(time.Hour))
			Expect(err).NotTo(HaveOccurred())
			stale.Expire = time.Now().Add(-time.Hour)
			Expect(env.SessionRepo.Create(ctx, stale)).To(Succeed())

			count, err := env.Sessions.Sweep(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(int64(1)))

			_, err = env.Sessions.GetByID(ctx, live.ID.String())
			Expect(err).NotTo(HaveOccurred())
		})

		It("reports zero when nothing is expired", func() {
			count, err := env.Sessions.Sweep(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(BeZero())
		})
	})
})
