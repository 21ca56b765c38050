package repository

import (
	"context"

	"finesse/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ServicoRepository persists services together with their owned material rows.
type ServicoRepository interface {
	Create(ctx context.Context, s *model.Servico) error
	Update(ctx context.Context, s *model.Servico) error
	FindByID(ctx context.Context, id int64) (*model.Servico, error)
	// FindByIDForUpdate locks the servico row until the surrounding transaction ends.
	FindByIDForUpdate(ctx context.Context, id int64) (*model.Servico, error)
	FindAll(ctx context.Context) ([]model.Servico, error)
	CountByAtividade(ctx context.Context, atividadeID int64) (int64, error)
	List(ctx context.Context, p ListParams) ([]model.Servico, int64, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

var servicoColumns = map[string]string{
	"id":             "id",
	"nome":           "nome",
	"grupo":          "grupo",
	"duracaoMinutos": "duracao_minutos",
	"ativo":          "ativo",
}

type servicoRepo struct{ db *gorm.DB }

func NewServicoRepository(db *gorm.DB) ServicoRepository { return &servicoRepo{db: db} }

func (r *servicoRepo) Create(ctx context.Context, s *model.Servico) error {
	db := GetDB(ctx, r.db)
	if err := db.Create(s).Error; err != nil {
		return err
	}
	return r.syncMateriais(db, s)
}

func (r *servicoRepo) Update(ctx context.Context, s *model.Servico) error {
	db := GetDB(ctx, r.db)
	if err := db.Save(s).Error; err != nil {
		return err
	}
	return r.syncMateriais(db, s)
}

// syncMateriais makes servico_materiais equal to s.Materiais: rows for
// materials no longer listed are removed, the rest are upserted on
// (servico_id, material_id).
func (r *servicoRepo) syncMateriais(db *gorm.DB, s *model.Servico) error {
	keep := make([]int64, 0, len(s.Materiais))
	for i := range s.Materiais {
		s.Materiais[i].ServicoID = s.ID
		keep = append(keep, s.Materiais[i].MaterialID)
	}

	del := db.Where("servico_id = ?", s.ID)
	if len(keep) > 0 {
		del = del.Where("material_id NOT IN ?", keep)
	}
	if err := del.Delete(&model.ServicoMaterial{}).Error; err != nil {
		return err
	}
	if len(s.Materiais) == 0 {
		return nil
	}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "servico_id"}, {Name: "material_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"quantidade_usada"}),
	}).Create(&s.Materiais).Error
}

func (r *servicoRepo) FindByID(ctx context.Context, id int64) (*model.Servico, error) {
	return r.find(GetDB(ctx, r.db), id)
}

func (r *servicoRepo) FindByIDForUpdate(ctx context.Context, id int64) (*model.Servico, error) {
	return r.find(GetDB(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *servicoRepo) find(db *gorm.DB, id int64) (*model.Servico, error) {
	var s model.Servico
	if err := db.First(&s, id).Error; err != nil {
		return nil, err
	}
	if err := db.Session(&gorm.Session{NewDB: true}).
		Where("servico_id = ?", id).
		Order("id ASC").
		Find(&s.Materiais).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *servicoRepo) FindAll(ctx context.Context) ([]model.Servico, error) {
	var rows []model.Servico
	err := GetDB(ctx, r.db).Order("id ASC").Find(&rows).Error
	return rows, err
}

func (r *servicoRepo) CountByAtividade(ctx context.Context, atividadeID int64) (int64, error) {
	var n int64
	err := GetDB(ctx, r.db).Model(&model.Servico{}).Where("atividade_id = ?", atividadeID).Count(&n).Error
	return n, err
}

func (r *servicoRepo) List(ctx context.Context, p ListParams) ([]model.Servico, int64, error) {
	return listPage[model.Servico](GetDB(ctx, r.db).Model(&model.Servico{}), p, servicoColumns)
}

// Delete removes the servico with its materials and price history.
func (r *servicoRepo) Delete(ctx context.Context, id int64) (bool, error) {
	db := GetDB(ctx, r.db)
	if err := db.Where("servico_id = ?", id).Delete(&model.ServicoMaterial{}).Error; err != nil {
		return false, err
	}
	if err := db.Where("servico_id = ?", id).Delete(&model.PrecoPraticado{}).Error; err != nil {
		return false, err
	}
	res := db.Delete(&model.Servico{}, id)
	return res.RowsAffected > 0, res.Error
}
