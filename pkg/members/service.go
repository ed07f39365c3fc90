package members

import (
	"context"
	"database/sql"

	"github.com/libradesk/circulation/pkg/errcodes"
	"github.com/libradesk/circulation/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

var mutableColumns = []string{"name", "phone", "email", "address"}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

func (svc *Service) CreateMember(ctx context.Context, member *models.Member) error {
	_, err := svc.db.
		NewInsert().
		Model(member).
		Exec(ctx)
	return errors.WithStack(err)
}

func (svc *Service) ListMembers(ctx context.Context) ([]*models.Member, error) {
	members := []*models.Member{}

	err := svc.db.
		NewSelect().
		Model(&members).
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return members, nil
}

func (svc *Service) RetrieveMember(ctx context.Context, id int) (*models.Member, error) {
	member := &models.Member{}

	err := svc.db.
		NewSelect().
		Model(member).
		Where("m.idMember = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Member")
		}
		return nil, errors.WithStack(err)
	}

	return member, nil
}

// UpdateMember overwrites all contact fields of the member with member.ID.
// The bool is false when no such member exists.
func (svc *Service) UpdateMember(ctx context.Context, member *models.Member) (bool, error) {
	res, err := svc.db.
		NewUpdate().
		Model(member).
		Column(mutableColumns...).
		WherePK().
		Exec(ctx)
	if err != nil {
		return false, errors.WithStack(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, errors.WithStack(err)
	}
	return n > 0, nil
}

func (svc *Service) DeleteMember(ctx context.Context, id int) (bool, error) {
	res, err := svc.db.
		NewDelete().
		Model((*models.Member)(nil)).
		Where("idMember = ?", id).
		Exec(ctx)
	if err != nil {
		return false, errors.WithStack(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, errors.WithStack(err)
	}
	return n > 0, nil
}
