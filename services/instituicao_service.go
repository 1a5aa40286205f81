package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/labore-tech/instituicoes-api/model"
	"github.com/labore-tech/instituicoes-api/utils/query"
	"github.com/labore-tech/instituicoes-api/utils/validation"
	"gorm.io/gorm"
)

var (
	// ErrNotFound means no record has the requested id
	ErrNotFound = errors.New("instituicao not found")
	// ErrDuplicateName means the name collides with an existing record under
	// the case- and accent-insensitive comparison
	ErrDuplicateName = errors.New("instituicao name already registered")
	// ErrStoreUnavailable means the store call timed out or was cut short
	ErrStoreUnavailable = errors.New("store unavailable")
)

// InstituicaoService handles reads, aggregation and mutations for institutions.
// Every operation performs a single round trip to the store under a
// client-side timeout; there are no retries.
type InstituicaoService struct {
	db      *gorm.DB
	timeout time.Duration
}

// NewInstituicaoService creates a new institution service
func NewInstituicaoService(db *gorm.DB, timeout time.Duration) *InstituicaoService {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &InstituicaoService{
		db:      db,
		timeout: timeout,
	}
}

// likeEscaper makes LIKE wildcards in a name filter match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// UFTotal is one aggregation row: the student total for a single region code.
type UFTotal struct {
	UF          string `json:"uf"`
	TotalAlunos int64  `json:"totalAlunos"`
}

// CreateInput carries a validated create request
type CreateInput struct {
	Nome      string
	UF        string
	QtdAlunos int64
}

// UpdateInput carries a partial update; nil means the field was not sent
type UpdateInput struct {
	Nome      *string
	UF        *string
	QtdAlunos *int64
}

// List executes a normalized list spec and returns one page of records.
// Name and UF filters compose with AND.
func (s *InstituicaoService) List(ctx context.Context, spec *query.ListSpec) ([]model.Instituicao, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	q := s.db.WithContext(ctx).Model(&model.Instituicao{})

	if spec.NomeSubstring != "" {
		pattern := "%" + likeEscaper.Replace(strings.ToLower(spec.NomeSubstring)) + "%"
		q = q.Where(`LOWER(nome) LIKE ? ESCAPE '\'`, pattern)
	}
	if spec.UF != "" {
		q = q.Where("uf = ?", spec.UF)
	}

	// The trailing id key keeps pages disjoint when the sort column has ties,
	// and gives unsorted listings a repeatable order.
	order := "id ASC"
	if spec.OrderColumn != "" {
		direction := "ASC"
		if spec.Descending {
			direction = "DESC"
		}
		order = fmt.Sprintf("%s %s, id ASC", spec.OrderColumn, direction)
	}

	list := []model.Instituicao{}
	if err := q.Order(order).Limit(spec.Limit).Offset(spec.Offset).Find(&list).Error; err != nil {
		return nil, storeError(err)
	}

	return list, nil
}

// Aggregate sums qtd_alunos per UF, one row per region present in the data.
// Rows come back ordered by UF; sorting by total for display is the caller's
// concern.
func (s *InstituicaoService) Aggregate(ctx context.Context) ([]UFTotal, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	rows := []UFTotal{}
	err := s.db.WithContext(ctx).Model(&model.Instituicao{}).
		Select("uf, COALESCE(SUM(qtd_alunos), 0) AS total_alunos").
		Group("uf").
		Order("uf ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, storeError(err)
	}

	return rows, nil
}

// Create inserts a new institution, enforcing the unique-name invariant
func (s *InstituicaoService) Create(ctx context.Context, in CreateInput) (*model.Instituicao, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	key := validation.NameKey(in.Nome)

	// Check if an institution with the same collated name already exists
	var existing model.Instituicao
	err := s.db.WithContext(ctx).Where("nome_chave = ?", key).First(&existing).Error
	if err == nil {
		return nil, ErrDuplicateName
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, storeError(err)
	}

	instituicao := model.Instituicao{
		Nome:      in.Nome,
		NomeChave: key,
		UF:        in.UF,
		QtdAlunos: in.QtdAlunos,
	}

	if err := s.db.WithContext(ctx).Create(&instituicao).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost a race with a concurrent create; the index is authoritative.
			return nil, ErrDuplicateName
		}
		return nil, storeError(err)
	}

	return &instituicao, nil
}

// Update applies the supplied fields to an existing institution, re-checking
// the unique-name invariant when the name changes
func (s *InstituicaoService) Update(ctx context.Context, id uint, in UpdateInput) (*model.Instituicao, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var instituicao model.Instituicao
	if err := s.db.WithContext(ctx).First(&instituicao, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, storeError(err)
	}

	if in.Nome != nil {
		key := validation.NameKey(*in.Nome)
		// Renaming to a spelling of the same collated name (case or accent
		// change only) is allowed; anything colliding with another record is not.
		if key != instituicao.NomeChave {
			var other model.Instituicao
			err := s.db.WithContext(ctx).Where("nome_chave = ? AND id <> ?", key, id).First(&other).Error
			if err == nil {
				return nil, ErrDuplicateName
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, storeError(err)
			}
		}
		instituicao.Nome = *in.Nome
		instituicao.NomeChave = key
	}
	if in.UF != nil {
		instituicao.UF = *in.UF
	}
	if in.QtdAlunos != nil {
		instituicao.QtdAlunos = *in.QtdAlunos
	}

	if err := s.db.WithContext(ctx).Save(&instituicao).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateName
		}
		return nil, storeError(err)
	}

	return &instituicao, nil
}

// Delete removes an institution by id and returns its prior state
func (s *InstituicaoService) Delete(ctx context.Context, id uint) (*model.Instituicao, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var instituicao model.Instituicao
	if err := s.db.WithContext(ctx).First(&instituicao, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, storeError(err)
	}

	if err := s.db.WithContext(ctx).Delete(&model.Instituicao{}, id).Error; err != nil {
		return nil, storeError(err)
	}

	return &instituicao, nil
}

// storeError folds timeouts and cancellations into ErrStoreUnavailable so
// handlers can answer 503 instead of 500
func storeError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return err
}
