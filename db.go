package bookshelf

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/fx"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type DBService interface {
	CreateOne(ctx context.Context, record interface{}) error
	UpdateOne(ctx context.Context, record interface{}, omit []string, query string, args ...interface{}) (int64, error)
	DeleteOne(ctx context.Context, record interface{}, query string, args ...interface{}) (int64, error)
	FindOne(ctx context.Context, result interface{}, query interface{}, args ...interface{}) error
	FindMany(ctx context.Context, result interface{}, order string, query interface{}, args ...interface{}) error
	Count(ctx context.Context, model interface{}, query interface{}, args ...interface{}) (int64, error)

	GetSession(ctx context.Context) (*gorm.DB, context.CancelFunc)
	Migrate(ctx context.Context) error
	DropAll(ctx context.Context) error
}

type ModelList []interface{}

type DBServiceParams struct {
	fx.In

	Config Config
	Logger LoggerService
	Models ModelList
}

type DbServiceResult struct {
	fx.Out

	DBService DBService
}

type dbService struct {
	cfg    Config
	db     *gorm.DB
	logger LoggerService

	models []interface{}
}

func NewDBService(params DBServiceParams) (DbServiceResult, error) {
	srv := &dbService{
		cfg:    params.Config,
		logger: params.Logger,
		models: params.Models,
	}

	if err := srv.Init(); err != nil {
		return DbServiceResult{}, err
	}

	return DbServiceResult{DBService: srv}, nil
}

func (srv *dbService) Init() error {
	var dialector gorm.Dialector

	switch srv.cfg.DBDriver {
	case DriverPostgres:
		dialector = postgres.New(postgres.Config{
			DSN:                  srv.cfg.DatabaseURL,
			PreferSimpleProtocol: true,
		})
	case DriverSQLite:
		dialector = sqlite.Open(srv.cfg.DatabaseURL)
	default:
		return fmt.Errorf("unsupported db driver %q", srv.cfg.DBDriver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return fmt.Errorf("open %s: %w", srv.cfg.DBDriver, err)
	}

	srv.db = db

	err = srv.Migrate(context.Background())
	if err != nil {
		return fmt.Errorf("migrate failed: %w", err)
	}

	srv.logger.Info("Database ready", "driver", srv.cfg.DBDriver, "models", len(srv.models))

	return nil
}

func (srv *dbService) CreateOne(ctx context.Context, record interface{}) error {
	sesh, cancel := srv.GetSession(ctx)
	defer cancel()

	createResult := sesh.Create(record)
	if createResult.Error != nil {
		if errors.Is(createResult.Error, gorm.ErrDuplicatedKey) {
			return ErrDuplicateKey
		}

		return fmt.Errorf("create one failed: %w", createResult.Error)
	}

	return nil
}

// UpdateOne writes every column of record except omit, zero values included,
// to the rows matching query and reports how many rows matched.
func (srv *dbService) UpdateOne(
	ctx context.Context,
	record interface{},
	omit []string,
	query string,
	args ...interface{},
) (int64, error) {
	sesh, cancel := srv.GetSession(ctx)
	defer cancel()

	updateResult := sesh.
		Model(record).
		Where(query, args...).
		Select("*").
		Omit(omit...).
		Updates(record)

	if updateResult.Error != nil {
		return 0, fmt.Errorf("update one failed: %w", updateResult.Error)
	}

	return updateResult.RowsAffected, nil
}

func (srv *dbService) DeleteOne(ctx context.Context, record interface{}, query string, args ...interface{}) (int64, error) {
	sesh, cancel := srv.GetSession(ctx)
	defer cancel()

	deleteResult := sesh.Where(query, args...).Delete(record)
	if deleteResult.Error != nil {
		return 0, fmt.Errorf("delete one failed: %w", deleteResult.Error)
	}

	return deleteResult.RowsAffected, nil
}

func (srv *dbService) FindOne(
	ctx context.Context,
	result interface{},
	query interface{},
	args ...interface{},
) error {
	sesh, cancel := srv.GetSession(ctx)
	defer cancel()

	if query != nil {
		sesh = sesh.Where(query, args...)
	}

	queryResult := sesh.Take(result)
	if queryResult.Error != nil {
		if errors.Is(queryResult.Error, gorm.ErrRecordNotFound) {
			return ErrRecordNotFound
		}

		return fmt.Errorf("find one failed: %w", queryResult.Error)
	}

	return nil
}

func (srv *dbService) FindMany(
	ctx context.Context,
	result interface{},
	order string,
	query interface{},
	args ...interface{},
) error {
	sesh, cancel := srv.GetSession(ctx)
	defer cancel()

	if query != nil {
		sesh = sesh.Where(query, args...)
	}

	if order != "" {
		sesh = sesh.Order(order)
	}

	queryResult := sesh.Find(result)
	if queryResult.Error != nil {
		return fmt.Errorf("find many failed: %w", queryResult.Error)
	}

	return nil
}

func (srv *dbService) Count(ctx context.Context, model interface{}, query interface{}, args ...interface{}) (int64, error) {
	sesh, cancel := srv.GetSession(ctx)
	defer cancel()

	sesh = sesh.Model(model)
	if query != nil {
		sesh = sesh.Where(query, args...)
	}

	var count int64
	if err := sesh.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count failed: %w", err)
	}

	return count, nil
}

func (srv *dbService) Migrate(ctx context.Context) error {
	for _, model := range srv.models {
		if err := srv.db.WithContext(ctx).AutoMigrate(model); err != nil {
			return fmt.Errorf("migrate failed for model %T: %w", model, err)
		}
	}

	return nil
}

func (srv *dbService) DropAll(ctx context.Context) error {
	sesh, cancel := srv.GetSession(ctx)
	defer cancel()

	for _, model := range srv.models {
		err := sesh.Migrator().DropTable(model)
		if err != nil {
			return fmt.Errorf("drop all failed: %w", err)
		}
	}

	return nil
}

func (srv *dbService) GetSession(ctx context.Context) (*gorm.DB, context.CancelFunc) {
	timeoutCtx, cancel := context.WithTimeout(ctx, srv.cfg.QueryTimeout)

	return srv.db.Session(&gorm.Session{
		Context: timeoutCtx,
	}), cancel
}
