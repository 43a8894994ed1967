package auth

import (
	"context"
	"time"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Credentials is the persistent-tier repository contract.
type Credentials interface {
	repository.Repository[*Credential]

	GetByEmail(ctx context.Context, email string) (*Credential, error)
	GetByEmailTx(ctx context.Context, tx bun.IDB, email string) (*Credential, error)
	Register(ctx context.Context, record *Credential) (*Credential, error)
	RegisterTx(ctx context.Context, tx bun.IDB, record *Credential) (*Credential, error)
}

type credentials struct {
	repository.Repository[*Credential]
	db *bun.DB
}

var _ Credentials = (*credentials)(nil)

// NewCredentialsRepository builds the bun-backed credentials repository.
func NewCredentialsRepository(db *bun.DB) Credentials {
	repo := repository.NewRepository[*Credential](db, repository.ModelHandlers[*Credential]{
		NewRecord: func() *Credential { return &Credential{} },
		GetID: func(c *Credential) uuid.UUID {
			if c == nil {
				return uuid.Nil
			}
			return c.ID
		},
		SetID: func(c *Credential, id uuid.UUID) {
			if c != nil {
				c.ID = id
			}
		},
	})

	return &credentials{
		Repository: repo,
		db:         db,
	}
}

func (a *credentials) GetByEmail(ctx context.Context, email string) (*Credential, error) {
	return a.GetByEmailTx(ctx, a.db, email)
}

func (a *credentials) GetByEmailTx(ctx context.Context, tx bun.IDB, email string) (*Credential, error) {
	record := &Credential{}

	err := tx.NewSelect().
		Model(record).
		Where("?TableAlias.email = ?", email).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					"email": email,
				})
		}
		return nil, err
	}

	return record, nil
}

func (a *credentials) Register(ctx context.Context, record *Credential) (*Credential, error) {
	return a.RegisterTx(ctx, a.db, record)
}

func (a *credentials) RegisterTx(ctx context.Context, tx bun.IDB, record *Credential) (*Credential, error) {
	prepareCredentialDefaults(record)
	return a.Repository.CreateTx(ctx, tx, record)
}

func prepareCredentialDefaults(record *Credential) {
	if record == nil {
		return
	}

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}

	if record.CreatedAt == nil {
		now := time.Now()
		record.CreatedAt = &now
	}
}
