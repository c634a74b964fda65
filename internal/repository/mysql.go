package repository

import (
	"context"
	"errors"
	"time"

	"pelican/internal/config"
	"pelican/internal/model"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// ErrLinkNotFound is returned when a link id is not present in the store
var ErrLinkNotFound = errors.New("link not found")

// MySQLRepository handles MySQL operations
type MySQLRepository struct {
	db *gorm.DB
}

// NewMySQLRepository creates a new MySQL repository
func NewMySQLRepository(cfg *config.MySQLConfig) *MySQLRepository {
	// Configure GORM logger
	var gormLogger logger.Interface
	if zerolog.GlobalLevel() > zerolog.DebugLevel {
		gormLogger = logger.Default.LogMode(logger.Silent)
	} else {
		gormLogger = logger.Default.LogMode(logger.Info)
	}

	db, err := gorm.Open(mysql.Open(cfg.DSN), &gorm.Config{
		Logger: gormLogger,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to MySQL")
	}

	// Auto migrate tables
	if err := db.AutoMigrate(
		&model.Link{},
		&model.ClickPoint{},
		&model.Evaluation{},
		&model.WorkflowInstance{},
		&model.WorkflowCheckpoint{},
		&model.ArchiveObject{},
	); err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate database")
	}

	return &MySQLRepository{db: db}
}

// GetDB returns the GORM DB instance
func (r *MySQLRepository) GetDB() *gorm.DB {
	return r.db
}

// SaveLink saves a link record
func (r *MySQLRepository) SaveLink(ctx context.Context, link *model.Link) error {
	return r.db.WithContext(ctx).Create(link).Error
}

// GetLink retrieves a link record by id
func (r *MySQLRepository) GetLink(ctx context.Context, id string) (*model.Link, error) {
	var link model.Link
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&link).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLinkNotFound
		}
		return nil, err
	}
	return &link, nil
}

// AddEvaluation appends a row to the evaluation log and returns the
// store-assigned id. The insert is keyed on the idempotency token, so a
// replayed call returns the id of the existing row instead of creating a
// second one.
func (r *MySQLRepository) AddEvaluation(ctx context.Context, eval *model.Evaluation) (int64, error) {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "idempotency_token"}},
			DoNothing: true,
		}).
		Create(eval).Error
	if err != nil {
		return 0, err
	}

	if eval.ID == 0 {
		// Conflict path: the row already exists from an earlier attempt
		var existing model.Evaluation
		if err := r.db.WithContext(ctx).
			Where("idempotency_token = ?", eval.IdempotencyToken).
			First(&existing).Error; err != nil {
			return 0, err
		}
		eval.ID = existing.ID
	}

	return eval.ID, nil
}

// ListEvaluations retrieves the evaluation log for a link, newest first
func (r *MySQLRepository) ListEvaluations(ctx context.Context, linkID string, limit int) ([]model.Evaluation, error) {
	var evals []model.Evaluation
	query := r.db.WithContext(ctx).
		Where("link_id = ?", linkID).
		Order("created_at DESC")

	if limit > 0 {
		query = query.Limit(limit)
	}

	err := query.Find(&evals).Error
	return evals, err
}

// SaveClickPoint persists one geo point of click aggregator state
func (r *MySQLRepository) SaveClickPoint(ctx context.Context, point *model.ClickPoint) error {
	return r.db.WithContext(ctx).Create(point).Error
}

// ListClickPoints retrieves the accumulated points for an account in
// insertion order
func (r *MySQLRepository) ListClickPoints(ctx context.Context, accountID string) ([]model.ClickPoint, error) {
	var points []model.ClickPoint
	err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("id ASC").
		Find(&points).Error
	return points, err
}

// CreateWorkflowInstance records a new workflow run
func (r *MySQLRepository) CreateWorkflowInstance(ctx context.Context, instance *model.WorkflowInstance) error {
	return r.db.WithContext(ctx).Create(instance).Error
}

// UpdateWorkflowStatus moves a workflow instance to a terminal state
func (r *MySQLRepository) UpdateWorkflowStatus(ctx context.Context, instanceID, status, errMsg string) error {
	return r.db.WithContext(ctx).
		Model(&model.WorkflowInstance{}).
		Where("id = ?", instanceID).
		Updates(map[string]interface{}{"status": status, "error": errMsg}).Error
}

// SaveCheckpoint commits a step result for a workflow instance. The first
// write for a (instance, step) pair wins; replays are no-ops.
func (r *MySQLRepository) SaveCheckpoint(ctx context.Context, cp *model.WorkflowCheckpoint) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "instance_id"}, {Name: "step"}},
			DoNothing: true,
		}).
		Create(cp).Error
}

// GetCheckpoint retrieves a committed step result, or nil when the step has
// not committed yet
func (r *MySQLRepository) GetCheckpoint(ctx context.Context, instanceID, step string) (*model.WorkflowCheckpoint, error) {
	var cp model.WorkflowCheckpoint
	err := r.db.WithContext(ctx).
		Where("instance_id = ? AND step = ?", instanceID, step).
		First(&cp).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cp, nil
}

// PutObject writes a blob at a deterministic path, replacing any previous
// payload at the same path
func (r *MySQLRepository) PutObject(ctx context.Context, path string, data []byte) error {
	obj := &model.ArchiveObject{Path: path, Data: data}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "path"}},
			UpdateAll: true,
		}).
		Create(obj).Error
}

// GetObject retrieves an archived blob by path
func (r *MySQLRepository) GetObject(ctx context.Context, path string) (*model.ArchiveObject, error) {
	var obj model.ArchiveObject
	err := r.db.WithContext(ctx).Where("path = ?", path).First(&obj).Error
	if err != nil {
		return nil, err
	}
	return &obj, nil
}

// Close closes the database connection
func (r *MySQLRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
