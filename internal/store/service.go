package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/storeplane/storeplane/internal/util/naming"
)

// Provisioner issues the cluster operations backing a store. Implemented by
// *k8s.Client; a stub stands in for it in tests.
type Provisioner interface {
	CreateNamespace(ctx context.Context, name string) error
	DeleteNamespace(ctx context.Context, name string) error
	ApplyQuota(ctx context.Context, namespace string) error
	DeployDatabase(ctx context.Context, namespace, storeID string) error
	DeployWordPress(ctx context.Context, namespace, storeID string) error
	CreateIngress(ctx context.Context, namespace, storeID string) error
	RunStoreSetupJob(ctx context.Context, namespace, storeID, storeName string) error
	WaitForDeploymentReady(ctx context.Context, namespace, name string, timeout time.Duration) error
}

// engineStrategy is one engine's slice of the provisioning sequence.
// deploy creates the engine's resources; finalize, when set, runs after the
// application tier is ready. Adding an engine means adding a strategy, never
// touching the state machine.
type engineStrategy struct {
	deploy   func(ctx context.Context, st *Store) error
	finalize func(ctx context.Context, st *Store) error
}

// Service owns the store registry and runs the provisioning state machine.
type Service struct {
	repo            Repository
	prov            Provisioner
	baseDomain      string
	appReadyTimeout time.Duration
	logger          *zap.Logger
	strategies      map[Engine]engineStrategy
}

// NewService wires the orchestrator. appReadyTimeout bounds the application
// tier readiness wait at step five of the sequence.
func NewService(repo Repository, prov Provisioner, baseDomain string, appReadyTimeout time.Duration, logger *zap.Logger) *Service {
	s := &Service{
		repo:            repo,
		prov:            prov,
		baseDomain:      baseDomain,
		appReadyTimeout: appReadyTimeout,
		logger:          logger,
	}
	s.strategies = map[Engine]engineStrategy{
		EngineWooCommerce: {deploy: s.deployWooCommerce, finalize: s.finalizeWooCommerce},
		EngineMedusa:      {deploy: s.deployMedusa},
	}
	return s
}

// CreateStore registers a store at pending and launches its provisioning
// sequence in the background. The caller gets the pending store immediately;
// any failure in the sequence surfaces as a failed status plus an error
// event, never as an error here.
func (s *Service) CreateStore(name string, engine Engine) *Store {
	id := newStoreID()
	now := time.Now()

	st := &Store{
		ID:        id,
		Name:      name,
		Engine:    engine,
		Status:    StatusPending,
		Namespace: naming.Namespace(id),
		URLs: URLs{
			Storefront: naming.StorefrontURL(id, s.baseDomain),
			Admin:      naming.AdminURL(id, s.baseDomain),
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.repo.Insert(st)
	s.addEvent(id, EventInfo, fmt.Sprintf("Store creation initiated: %s", name))

	go s.provision(*st)

	return st
}

// ListStores returns all stores, newest first. Stores still at provisioning
// are returned as-is: their ready/failed transition is owned exclusively by
// the background sequence, never inferred from a point-in-time poll here.
func (s *Service) ListStores() []*Store {
	return s.repo.List()
}

// GetStore returns a store by ID, or ErrNotFound.
func (s *Service) GetStore(id string) (*Store, error) {
	st, ok := s.repo.Get(id)
	if !ok {
		return nil, ErrNotFound
	}
	return st, nil
}

// GetStoreEvents returns a store's audit log in append order. An unknown ID
// yields an empty list.
func (s *Service) GetStoreEvents(id string) []*Event {
	return s.repo.Events(id)
}

// DeleteStore tears down a store's namespace and removes it from the
// registry. Deletion is awaited synchronously: a namespace deletion failure
// marks the store failed and propagates, leaving it visible on next read.
func (s *Service) DeleteStore(ctx context.Context, id string) error {
	st, ok := s.repo.Get(id)
	if !ok {
		return ErrNotFound
	}

	s.setStatus(id, StatusDeleting, "")
	s.addEvent(id, EventInfo, "Store deletion initiated")

	if err := s.prov.DeleteNamespace(ctx, st.Namespace); err != nil {
		s.setStatus(id, StatusFailed, err.Error())
		s.addEvent(id, EventError, fmt.Sprintf("Deletion failed: %s", err.Error()))
		return fmt.Errorf("delete store %s: %w", id, err)
	}

	s.repo.Delete(id)
	s.repo.DeleteEvents(id)
	deletionsTotal.Inc()
	s.logger.Info("store deleted", zap.String("store_id", id))
	return nil
}

// provision runs the full sequence for one store. It is the only writer of
// the ready/failed terminals and must never let a failure escape: anything
// raised here is converted into a failed status and an error event.
func (s *Service) provision(st Store) {
	ctx := context.Background()

	defer func() {
		if r := recover(); r != nil {
			s.finishFailed(&st, fmt.Errorf("panic during provisioning: %v", r))
		}
	}()

	if err := s.runSequence(ctx, &st); err != nil {
		s.finishFailed(&st, err)
		return
	}

	if s.setTerminal(st.ID, StatusReady, "") {
		s.addEvent(st.ID, EventInfo, "Store is ready!")
	}
	provisionsTotal.WithLabelValues(string(st.Engine), "success").Inc()
	s.logger.Info("store provisioned",
		zap.String("store_id", st.ID), zap.String("engine", string(st.Engine)))
}

func (s *Service) runSequence(ctx context.Context, st *Store) error {
	s.setStatus(st.ID, StatusProvisioning, "")
	s.addEvent(st.ID, EventInfo, "Starting Kubernetes resource provisioning")

	s.addEvent(st.ID, EventInfo, fmt.Sprintf("Creating namespace: %s", st.Namespace))
	if err := s.prov.CreateNamespace(ctx, st.Namespace); err != nil {
		return err
	}

	s.addEvent(st.ID, EventInfo, "Applying resource quota")
	if err := s.prov.ApplyQuota(ctx, st.Namespace); err != nil {
		return err
	}

	strategy, ok := s.strategies[st.Engine]
	if !ok {
		return fmt.Errorf("no provisioning strategy for engine %q", st.Engine)
	}

	if err := strategy.deploy(ctx, st); err != nil {
		return err
	}

	s.addEvent(st.ID, EventInfo, "Waiting for pods to be ready")
	if err := s.prov.WaitForDeploymentReady(ctx, st.Namespace, naming.WordPress, s.appReadyTimeout); err != nil {
		return err
	}

	if strategy.finalize != nil {
		if err := strategy.finalize(ctx, st); err != nil {
			return err
		}
	}

	return nil
}

func (s *Service) deployWooCommerce(ctx context.Context, st *Store) error {
	s.addEvent(st.ID, EventInfo, "Deploying MariaDB database")
	if err := s.prov.DeployDatabase(ctx, st.Namespace, st.ID); err != nil {
		return err
	}

	s.addEvent(st.ID, EventInfo, "Deploying WordPress with WooCommerce")
	if err := s.prov.DeployWordPress(ctx, st.Namespace, st.ID); err != nil {
		return err
	}

	s.addEvent(st.ID, EventInfo, "Creating ingress for store")
	return s.prov.CreateIngress(ctx, st.Namespace, st.ID)
}

func (s *Service) finalizeWooCommerce(ctx context.Context, st *Store) error {
	s.addEvent(st.ID, EventInfo, "Bootstrapping WooCommerce (plugins, sample catalog, checkout)")
	return s.prov.RunStoreSetupJob(ctx, st.Namespace, st.ID, st.Name)
}

func (s *Service) deployMedusa(_ context.Context, st *Store) error {
	s.addEvent(st.ID, EventWarning, "MedusaJS provisioning is not yet implemented")
	return ErrEngineNotImplemented
}

func (s *Service) finishFailed(st *Store, err error) {
	if s.setTerminal(st.ID, StatusFailed, err.Error()) {
		s.addEvent(st.ID, EventError, fmt.Sprintf("Provisioning failed: %s", err.Error()))
	}
	provisionsTotal.WithLabelValues(string(st.Engine), "failure").Inc()
	s.logger.Error("store provisioning failed",
		zap.String("store_id", st.ID), zap.Error(err))
}

// setStatus mutates a store's status atomically. The error message is only
// written on failure transitions; earlier failure text is left in place so
// the latest failure wins without clearing history mid-sequence.
func (s *Service) setStatus(id string, status Status, errMsg string) {
	s.repo.Update(id, func(st *Store) {
		st.Status = status
		st.UpdatedAt = time.Now()
		if errMsg != "" {
			st.Error = errMsg
		}
	})
}

// setTerminal writes a ready/failed terminal from the provisioning sequence.
// The write is skipped when the store entered deletion meanwhile, so a
// concurrent delete cannot have its outcome overwritten by a slow sequence.
// It reports whether the write landed.
func (s *Service) setTerminal(id string, status Status, errMsg string) bool {
	applied := false
	s.repo.Update(id, func(st *Store) {
		if st.Status == StatusDeleting {
			return
		}
		st.Status = status
		st.UpdatedAt = time.Now()
		if errMsg != "" {
			st.Error = errMsg
		}
		applied = true
	})
	return applied
}

func (s *Service) addEvent(storeID string, typ EventType, message string) {
	// A sequence can outlive its store when a delete races it; dropping the
	// event keeps the registry free of logs for stores that no longer exist.
	if _, ok := s.repo.Get(storeID); !ok {
		return
	}
	s.repo.AppendEvent(&Event{
		ID:        uuid.NewString(),
		StoreID:   storeID,
		Type:      typ,
		Message:   message,
		Timestamp: time.Now(),
	})
	s.logger.Info("store event",
		zap.String("store_id", storeID),
		zap.String("type", string(typ)),
		zap.String("message", message))
}

// newStoreID returns a short unique identifier, the first segment of a UUID.
// IDs are never reused: deletion removes the store but a fresh create always
// draws a fresh UUID.
func newStoreID() string {
	return strings.SplitN(uuid.NewString(), "-", 2)[0]
}
