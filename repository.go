package bookshelf

import (
	"context"
	"fmt"
	"reflect"
	"strings"
)

// KeySeparator joins the parts of a composite key into one item id.
const KeySeparator = "/"

type Repository[M Model] interface {
	FindAll(ctx context.Context) ([]M, error)
	FindMany(ctx context.Context, query string, args ...interface{}) ([]M, error)
	FindOneByID(ctx context.Context, itemID string) (M, error)
	Exists(ctx context.Context, itemID string) (bool, error)
	CreateOne(ctx context.Context, item M) error
	UpdateOne(ctx context.Context, itemID string, item M) (bool, error)
	DeleteOne(ctx context.Context, itemID string) (bool, error)
}

type repository[M Model] struct {
	db     DBService
	logger LoggerService

	keyColumns []string
	order      string
	tableName  string
}

type RepositoryOption[M Model] func(*repository[M])

func NewRepository[M Model](
	db DBService,
	logger LoggerService,
	opts ...RepositoryOption[M],
) Repository[M] {
	repo := &repository[M]{
		db:         db,
		logger:     logger,
		keyColumns: []string{"id"},
	}

	for _, opt := range opts {
		opt(repo)
	}

	if repo.order == "" {
		columns := make([]string, len(repo.keyColumns))
		for i, column := range repo.keyColumns {
			columns[i] = repo.qualified(column)
		}
		repo.order = strings.Join(columns, ", ")
	}

	return repo
}

func (r *repository[M]) FindAll(ctx context.Context) ([]M, error) {
	return r.FindMany(ctx, "")
}

func (r *repository[M]) FindMany(ctx context.Context, query string, args ...interface{}) ([]M, error) {
	var items []M

	var where interface{}
	if query != "" {
		where = query
	}

	err := r.db.FindMany(ctx, &items, r.order, where, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to find many items: %w", err)
	}

	r.logger.Debug("Found many items", "table", r.tableName, "count", len(items))

	return items, nil
}

func (r *repository[M]) FindOneByID(ctx context.Context, itemID string) (M, error) {
	item := r.newItem()

	query, args := r.keyFilter(itemID, true)

	err := r.db.FindOne(ctx, item, query, args...)
	if err != nil {
		return item, fmt.Errorf("failed to find one item: %w", err)
	}

	r.logger.Debug("Found one item", "item", item.GetID(), "table", r.tableName)

	return item, nil
}

func (r *repository[M]) Exists(ctx context.Context, itemID string) (bool, error) {
	query, args := r.keyFilter(itemID, true)

	count, err := r.db.Count(ctx, r.newItem(), query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to count items: %w", err)
	}

	return count > 0, nil
}

func (r *repository[M]) CreateOne(ctx context.Context, item M) error {
	err := r.db.CreateOne(ctx, item)
	if err != nil {
		return fmt.Errorf("failed to create one item: %w", err)
	}

	r.logger.Debug("Created one item", "item", item.GetID(), "table", r.tableName)

	return nil
}

// UpdateOne reports false when no row carries itemID. Key columns are never
// rewritten.
func (r *repository[M]) UpdateOne(ctx context.Context, itemID string, item M) (bool, error) {
	item.SetID(itemID)

	query, args := r.keyFilter(itemID, false)

	rows, err := r.db.UpdateOne(ctx, item, r.keyColumns, query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to update one item: %w", err)
	}

	r.logger.Debug("Updated one item", "item", itemID, "table", r.tableName, "rows", rows)

	return rows > 0, nil
}

// DeleteOne reports false when no row carries itemID.
func (r *repository[M]) DeleteOne(ctx context.Context, itemID string) (bool, error) {
	query, args := r.keyFilter(itemID, false)

	rows, err := r.db.DeleteOne(ctx, r.newItem(), query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to delete one item: %w", err)
	}

	r.logger.Debug("Deleted one item", "item", itemID, "table", r.tableName, "rows", rows)

	return rows > 0, nil
}

// keyFilter matches itemID against the key columns. A composite id is split
// on KeySeparator, the last column taking whatever remains.
func (r *repository[M]) keyFilter(itemID string, qualify bool) (string, []interface{}) {
	parts := []string{itemID}
	if len(r.keyColumns) > 1 {
		parts = strings.SplitN(itemID, KeySeparator, len(r.keyColumns))
	}

	clauses := make([]string, 0, len(r.keyColumns))
	args := make([]interface{}, 0, len(r.keyColumns))

	for i, column := range r.keyColumns {
		if qualify {
			column = r.qualified(column)
		}

		var value string
		if i < len(parts) {
			value = parts[i]
		}

		clauses = append(clauses, column+" = ?")
		args = append(args, value)
	}

	return strings.Join(clauses, " AND "), args
}

func (r *repository[M]) qualified(column string) string {
	if r.tableName == "" {
		return column
	}

	return fmt.Sprintf("%s.%s", r.tableName, column)
}

// newItem allocates the struct behind a pointer model type such as *Book.
func (r *repository[M]) newItem() M {
	var item M

	t := reflect.TypeOf(item)
	if t != nil && t.Kind() == reflect.Pointer {
		return reflect.New(t.Elem()).Interface().(M)
	}

	return item
}

func WithTableName[M Model](tableName string) RepositoryOption[M] {
	return func(r *repository[M]) {
		r.tableName = tableName
	}
}

func WithKeyColumn[M Model](column string) RepositoryOption[M] {
	return func(r *repository[M]) {
		r.keyColumns = []string{column}
	}
}

// WithKeyColumns sets a composite primary key. Item ids are then the column
// values joined with KeySeparator, in this order.
func WithKeyColumns[M Model](columns ...string) RepositoryOption[M] {
	return func(r *repository[M]) {
		r.keyColumns = columns
	}
}

func WithOrder[M Model](order string) RepositoryOption[M] {
	return func(r *repository[M]) {
		r.order = order
	}
}
