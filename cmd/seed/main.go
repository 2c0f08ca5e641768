// Package main seeds the JSON document store with demo data: a demo
// tenant, an admin and a member user, one sample note and its queued
// extraction job. The development-mode identity fallback resolves
// against these rows.
package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/MarcKarbowiak/meeting-action-extractor/internal/config"
	"github.com/MarcKarbowiak/meeting-action-extractor/internal/domain"
	"github.com/MarcKarbowiak/meeting-action-extractor/internal/platform/jsonfile"
	"github.com/MarcKarbowiak/meeting-action-extractor/internal/platform/logger"
)

const (
	demoTenantID = "tenant-demo"
	adminUserID  = "user-admin-demo"
	memberUserID = "user-member-demo"
	sampleNoteID = "note-demo-1"
	sampleJobID  = "job-demo-1"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Seed failed: %v", err)
	}
	fmt.Println("Seed complete: demo tenant, users, memberships, sample note, and queued job are present.")
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logr, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	st := jsonfile.New(cfg.Store.DataDir, jsonfile.Options{LockTTL: cfg.Worker.LockTTL}, logr)
	if err := st.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}

	ctx := context.Background()
	now := time.Now().UTC()

	if err := st.UpsertTenant(ctx, &domain.Tenant{
		ID:        demoTenantID,
		Name:      "Demo Tenant",
		CreatedAt: now,
	}); err != nil {
		return fmt.Errorf("seed tenant: %w", err)
	}

	users := []domain.User{
		{ID: adminUserID, Email: "admin@demo.local", DisplayName: "admin", CreatedAt: now},
		{ID: memberUserID, Email: "member@demo.local", DisplayName: "member", CreatedAt: now},
	}
	for i := range users {
		if _, err := st.UpsertUser(ctx, &users[i]); err != nil {
			return fmt.Errorf("seed user %s: %w", users[i].Email, err)
		}
	}

	memberships := []domain.Membership{
		{TenantID: demoTenantID, UserID: adminUserID, Role: domain.RoleAdmin, CreatedAt: now},
		{TenantID: demoTenantID, UserID: memberUserID, Role: domain.RoleMember, CreatedAt: now},
	}
	for i := range memberships {
		if err := st.UpsertMembership(ctx, &memberships[i]); err != nil {
			return fmt.Errorf("seed membership for %s: %w", memberships[i].UserID, err)
		}
	}

	if err := st.UpsertNote(ctx, &domain.Note{
		ID:        sampleNoteID,
		TenantID:  demoTenantID,
		Title:     "Q1 planning sync",
		RawText:   "Discuss Q1 roadmap and assign follow-up tasks to team leads.",
		Status:    domain.NoteStatusSubmitted,
		CreatedBy: adminUserID,
		CreatedAt: now,
	}); err != nil {
		return fmt.Errorf("seed note: %w", err)
	}

	if err := st.UpsertJob(ctx, &domain.Job{
		ID:        sampleJobID,
		TenantID:  demoTenantID,
		NoteID:    sampleNoteID,
		Status:    domain.JobStatusQueued,
		CreatedAt: now,
		UpdatedAt: now,
	}); err != nil {
		return fmt.Errorf("seed job: %w", err)
	}

	return nil
}
