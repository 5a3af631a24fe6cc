package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"tourlog/internal/auth"
	"tourlog/internal/model"
	"tourlog/internal/repository"
)

// SeedConfig names the administrator created on first start
type SeedConfig struct {
	AdminUsername string
	AdminPassword string
}

// DefaultStations and DefaultPorts are inserted by Seed when missing
var (
	DefaultStations = []model.PoliceStation{
		{Name: "مركز شرطة الكرادة", Governorate: "بغداد"},
		{Name: "مركز شرطة المنصور", Governorate: "بغداد"},
		{Name: "مركز شرطة العشار", Governorate: "البصرة"},
		{Name: "مركز شرطة الزبير", Governorate: "البصرة"},
		{Name: "مركز شرطة الحلة", Governorate: "بابل"},
	}
	DefaultPorts = []model.Port{
		{Name: "منفذ طريبيل", Governorate: "الأنبار"},
		{Name: "منفذ الشلامجة", Governorate: "البصرة"},
		{Name: "ميناء أم قصر", Governorate: "البصرة"},
		{Name: "منفذ زرباطية", Governorate: "واسط"},
		{Name: "منفذ المنذرية", Governorate: "ديالى"},
	}
)

// Seeder populates an empty database. Running it again changes nothing.
type Seeder struct {
	userRepo    repository.UserRepository
	stationRepo repository.StationRepository
	portRepo    repository.PortRepository
}

func NewSeeder(userRepo repository.UserRepository, stationRepo repository.StationRepository, portRepo repository.PortRepository) *Seeder {
	return &Seeder{userRepo: userRepo, stationRepo: stationRepo, portRepo: portRepo}
}

func (s *Seeder) Seed(ctx context.Context, cfg SeedConfig) error {
	if err := s.seedAdmin(ctx, cfg); err != nil {
		return err
	}
	for i := range DefaultStations {
		station := DefaultStations[i]
		if err := seedReference(ctx, s.stationRepo, &station, station.Name); err != nil {
			return err
		}
	}
	for i := range DefaultPorts {
		port := DefaultPorts[i]
		if err := seedReference(ctx, s.portRepo, &port, port.Name); err != nil {
			return err
		}
	}
	return nil
}

func (s *Seeder) seedAdmin(ctx context.Context, cfg SeedConfig) error {
	_, err := s.userRepo.FindByUsername(ctx, cfg.AdminUsername)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("failed to look up admin: %w", err)
	}

	hash, err := auth.HashPassword(cfg.AdminPassword)
	if err != nil {
		return err
	}
	admin := &model.User{
		Username:     cfg.AdminUsername,
		PasswordHash: hash,
		DisplayName:  "مدير النظام",
		Role:         model.RoleAdmin,
		Permissions:  []model.Permission{},
	}
	if err := s.userRepo.Create(ctx, admin); err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}
	log.Info().Str("username", admin.Username).Msg("seeded admin user")
	return nil
}

func seedReference[T repository.ReferenceEntry](ctx context.Context, repo repository.ReferenceRepository[T], entry *T, name string) error {
	_, err := repo.FindByName(ctx, name)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("failed to look up %q: %w", name, err)
	}
	if err := repo.Create(ctx, entry); err != nil && !errors.Is(err, repository.ErrDuplicate) {
		return fmt.Errorf("failed to seed %q: %w", name, err)
	}
	log.Debug().Str("name", name).Msg("seeded reference entry")
	return nil
}
