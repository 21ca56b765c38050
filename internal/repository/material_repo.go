package repository

import (
	"context"

	"finesse/internal/model"

	"gorm.io/gorm"
)

type MaterialRepository interface {
	Create(ctx context.Context, m *model.Material) error
	Update(ctx context.Context, m *model.Material) error
	FindByID(ctx context.Context, id int64) (*model.Material, error)
	FindByIDs(ctx context.Context, ids []int64) ([]model.Material, error)
	FindAll(ctx context.Context) ([]model.Material, error)
	List(ctx context.Context, p ListParams) ([]model.Material, int64, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

var materialColumns = map[string]string{
	"id":              "id",
	"produto":         "produto",
	"unidadeMedida":   "unidade_medida",
	"volumeEmbalagem": "volume_embalagem",
	"precoEmbalagem":  "preco_embalagem",
	"custoUnitario":   "custo_unitario",
	"ativo":           "ativo",
}

type materialRepo struct{ db *gorm.DB }

func NewMaterialRepository(db *gorm.DB) MaterialRepository { return &materialRepo{db: db} }

func (r *materialRepo) Create(ctx context.Context, m *model.Material) error {
	return GetDB(ctx, r.db).Create(m).Error
}

func (r *materialRepo) Update(ctx context.Context, m *model.Material) error {
	return GetDB(ctx, r.db).Save(m).Error
}

func (r *materialRepo) FindByID(ctx context.Context, id int64) (*model.Material, error) {
	var m model.Material
	if err := GetDB(ctx, r.db).First(&m, id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *materialRepo) FindByIDs(ctx context.Context, ids []int64) ([]model.Material, error) {
	var rows []model.Material
	if len(ids) == 0 {
		return rows, nil
	}
	err := GetDB(ctx, r.db).Where("id IN ?", ids).Find(&rows).Error
	return rows, err
}

func (r *materialRepo) FindAll(ctx context.Context) ([]model.Material, error) {
	var rows []model.Material
	err := GetDB(ctx, r.db).Order("id ASC").Find(&rows).Error
	return rows, err
}

func (r *materialRepo) List(ctx context.Context, p ListParams) ([]model.Material, int64, error) {
	return listPage[model.Material](GetDB(ctx, r.db).Model(&model.Material{}), p, materialColumns)
}

func (r *materialRepo) Delete(ctx context.Context, id int64) (bool, error) {
	res := GetDB(ctx, r.db).Delete(&model.Material{}, id)
	return res.RowsAffected > 0, res.Error
}
