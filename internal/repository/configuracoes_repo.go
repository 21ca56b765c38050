package repository

import (
	"context"

	"finesse/internal/model"

	"gorm.io/gorm"
)

type ConfiguracoesRepository interface {
	Create(ctx context.Context, c *model.Configuracoes) error
	Update(ctx context.Context, c *model.Configuracoes) error
	FindByID(ctx context.Context, id int64) (*model.Configuracoes, error)
	// FindAtiva returns the most recently updated active row.
	FindAtiva(ctx context.Context) (*model.Configuracoes, error)
	List(ctx context.Context, p ListParams) ([]model.Configuracoes, int64, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

var configuracoesColumns = map[string]string{
	"id":                      "id",
	"pretensaoSalarialMensal": "pretensao_salarial_mensal",
	"horasSemanais":           "horas_semanais",
	"custoFixoPct":            "custo_fixo_pct",
	"margemLucroPadraoPct":    "margem_lucro_padrao_pct",
	"ativo":                   "ativo",
	"atualizadoEm":            "atualizado_em",
}

type configuracoesRepo struct{ db *gorm.DB }

func NewConfiguracoesRepository(db *gorm.DB) ConfiguracoesRepository {
	return &configuracoesRepo{db: db}
}

func (r *configuracoesRepo) Create(ctx context.Context, c *model.Configuracoes) error {
	return GetDB(ctx, r.db).Create(c).Error
}

func (r *configuracoesRepo) Update(ctx context.Context, c *model.Configuracoes) error {
	return GetDB(ctx, r.db).Save(c).Error
}

func (r *configuracoesRepo) FindByID(ctx context.Context, id int64) (*model.Configuracoes, error) {
	var c model.Configuracoes
	if err := GetDB(ctx, r.db).First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *configuracoesRepo) FindAtiva(ctx context.Context) (*model.Configuracoes, error) {
	var c model.Configuracoes
	err := GetDB(ctx, r.db).
		Where("ativo = true").
		Order("atualizado_em DESC, id DESC").
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *configuracoesRepo) List(ctx context.Context, p ListParams) ([]model.Configuracoes, int64, error) {
	return listPage[model.Configuracoes](GetDB(ctx, r.db).Model(&model.Configuracoes{}), p, configuracoesColumns)
}

func (r *configuracoesRepo) Delete(ctx context.Context, id int64) (bool, error) {
	res := GetDB(ctx, r.db).Delete(&model.Configuracoes{}, id)
	return res.RowsAffected > 0, res.Error
}
