package repository

import (
	"context"

	"finesse/internal/model"

	"gorm.io/gorm"
)

type AtividadeRepository interface {
	Create(ctx context.Context, a *model.Atividade) error
	Update(ctx context.Context, a *model.Atividade) error
	FindByID(ctx context.Context, id int64) (*model.Atividade, error)
	FindAll(ctx context.Context) ([]model.Atividade, error)
	List(ctx context.Context, p ListParams) ([]model.Atividade, int64, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

var atividadeColumns = map[string]string{
	"id":               "id",
	"nome":             "nome",
	"cnae":             "cnae",
	"aliquotaTotalPct": "aliquota_total_pct",
	"issPct":           "iss_pct",
	"ativo":            "ativo",
}

type atividadeRepo struct{ db *gorm.DB }

func NewAtividadeRepository(db *gorm.DB) AtividadeRepository { return &atividadeRepo{db: db} }

func (r *atividadeRepo) Create(ctx context.Context, a *model.Atividade) error {
	return GetDB(ctx, r.db).Create(a).Error
}

func (r *atividadeRepo) Update(ctx context.Context, a *model.Atividade) error {
	return GetDB(ctx, r.db).Save(a).Error
}

func (r *atividadeRepo) FindByID(ctx context.Context, id int64) (*model.Atividade, error) {
	var a model.Atividade
	if err := GetDB(ctx, r.db).First(&a, id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *atividadeRepo) FindAll(ctx context.Context) ([]model.Atividade, error) {
	var rows []model.Atividade
	err := GetDB(ctx, r.db).Order("id ASC").Find(&rows).Error
	return rows, err
}

func (r *atividadeRepo) List(ctx context.Context, p ListParams) ([]model.Atividade, int64, error) {
	return listPage[model.Atividade](GetDB(ctx, r.db).Model(&model.Atividade{}), p, atividadeColumns)
}

func (r *atividadeRepo) Delete(ctx context.Context, id int64) (bool, error) {
	res := GetDB(ctx, r.db).Delete(&model.Atividade{}, id)
	return res.RowsAffected > 0, res.Error
}
