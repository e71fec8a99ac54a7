package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/idaholion/cabinbuddy-48f92664-sub000/internal/clock"
	"github.com/idaholion/cabinbuddy-48f92664-sub000/internal/occupancy"
	"github.com/idaholion/cabinbuddy-48f92664-sub000/internal/orgcontext"
	"github.com/idaholion/cabinbuddy-48f92664-sub000/internal/stay/domain"
	"github.com/idaholion/cabinbuddy-48f92664-sub000/pkg/dates"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
	Clock clock.Clock
	Sync  domain.OccupancySync `optional:"true"`
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
	clock clock.Clock
	sync  domain.OccupancySync
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("stay.service"),
		genID: p.GenID,
		repo:  p.Repo,
		clock: p.Clock,
		sync:  p.Sync,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Stay, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return nil, domain.ErrInvalidOrganization
	}

	familyGroup := strings.TrimSpace(req.FamilyGroup)
	if familyGroup == "" {
		return nil, domain.ErrInvalidFamilyGroup
	}
	start := dates.Truncate(req.StartDate)
	end := dates.Truncate(req.EndDate)
	if !end.After(start) {
		return nil, domain.ErrInvalidDateRange
	}
	status := req.Status
	if status == "" {
		status = domain.StatusConfirmed
	}
	if !status.Valid() {
		return nil, domain.ErrInvalidStatus
	}
	if req.RateOverride.Valid && req.RateOverride.Decimal.IsNegative() {
		return nil, domain.ErrInvalidRateOverride
	}
	if err := occupancy.Validate(start, end, req.DailyOccupancy); err != nil {
		return nil, err
	}

	hosts := make([]domain.HostAssignment, 0, len(req.HostAssignments))
	for _, h := range req.HostAssignments {
		email := strings.TrimSpace(h.Email)
		if email == "" {
			continue
		}
		hosts = append(hosts, domain.HostAssignment{Email: email, Name: strings.TrimSpace(h.Name)})
	}

	now := s.clock.Now(ctx)
	stay := &domain.Stay{
		ID:              s.genID.Generate(),
		OrgID:           orgID,
		FamilyGroup:     familyGroup,
		HostAssignments: datatypes.NewJSONSlice(hosts),
		OwnerUserID:     strings.TrimSpace(req.OwnerUserID),
		StartDate:       start,
		EndDate:         end,
		DailyOccupancy:  datatypes.NewJSONSlice(occupancy.Normalize(start, end, req.DailyOccupancy)),
		Status:          status,
		HasPets:         req.HasPets,
		RateOverride:    req.RateOverride,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.repo.Insert(ctx, s.db, stay); err != nil {
		return nil, err
	}

	s.log.Info("stay created",
		zap.String("org_id", orgID.String()),
		zap.String("stay_id", stay.ID.String()),
		zap.String("host_key", stay.HostKey().String()),
	)
	return stay, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Stay, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return nil, domain.ErrInvalidOrganization
	}
	stayID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	stay, err := s.repo.FindByID(ctx, s.db, orgID, stayID)
	if err != nil {
		return nil, err
	}
	if stay == nil {
		return nil, domain.ErrNotFound
	}
	return stay, nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) ([]domain.Stay, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return nil, domain.ErrInvalidOrganization
	}
	return s.repo.List(ctx, s.db, orgID, req)
}

func (s *Service) UpdateDailyOccupancy(ctx context.Context, req domain.UpdateOccupancyRequest) (*domain.Stay, error) {
	stay, err := s.Get(ctx, req.StayID)
	if err != nil {
		return nil, err
	}
	if err := occupancy.Validate(stay.StartDate, stay.EndDate, req.Days); err != nil {
		return nil, err
	}

	stay.DailyOccupancy = datatypes.NewJSONSlice(occupancy.Normalize(stay.StartDate, stay.EndDate, req.Days))
	stay.UpdatedAt = s.clock.Now(ctx)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.UpdateOccupancy(ctx, tx, stay); err != nil {
			return err
		}
		if s.sync == nil {
			return nil
		}
		return s.sync.SyncStayOccupancy(ctx, tx, stay)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("stay occupancy replaced",
		zap.String("stay_id", stay.ID.String()),
		zap.Int("guest_nights", occupancy.GuestNights(stay.Occupancy())),
	)
	return stay, nil
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id <= 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
