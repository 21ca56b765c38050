package repository

import (
	"context"
	"strings"

	"finesse/internal/model"

	"gorm.io/gorm"
)

type UsuarioRepository interface {
	Create(ctx context.Context, u *model.Usuario) error
	Update(ctx context.Context, u *model.Usuario) error
	FindByID(ctx context.Context, id int64) (*model.Usuario, error)
	FindByEmail(ctx context.Context, email string) (*model.Usuario, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ListAll(ctx context.Context) ([]model.Usuario, error)
	ListAtivos(ctx context.Context) ([]model.Usuario, error)
	Count(ctx context.Context) (int64, error)
	CountAtivos(ctx context.Context) (int64, error)
	CountByPerfil(ctx context.Context, perfil model.Perfil) (int64, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type usuarioRepo struct{ db *gorm.DB }

func NewUsuarioRepository(db *gorm.DB) UsuarioRepository { return &usuarioRepo{db: db} }

func (r *usuarioRepo) Create(ctx context.Context, u *model.Usuario) error {
	return GetDB(ctx, r.db).Create(u).Error
}

func (r *usuarioRepo) Update(ctx context.Context, u *model.Usuario) error {
	return GetDB(ctx, r.db).Save(u).Error
}

func (r *usuarioRepo) FindByID(ctx context.Context, id int64) (*model.Usuario, error) {
	var u model.Usuario
	if err := GetDB(ctx, r.db).First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// FindByEmail matches case-insensitively; emails are stored lowercased.
func (r *usuarioRepo) FindByEmail(ctx context.Context, email string) (*model.Usuario, error) {
	var u model.Usuario
	err := GetDB(ctx, r.db).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *usuarioRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var n int64
	err := GetDB(ctx, r.db).Model(&model.Usuario{}).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		Count(&n).Error
	return n > 0, err
}

func (r *usuarioRepo) ListAll(ctx context.Context) ([]model.Usuario, error) {
	var users []model.Usuario
	err := GetDB(ctx, r.db).Order("id ASC").Find(&users).Error
	return users, err
}

func (r *usuarioRepo) ListAtivos(ctx context.Context) ([]model.Usuario, error) {
	var users []model.Usuario
	err := GetDB(ctx, r.db).Where("ativo = true").Order("id ASC").Find(&users).Error
	return users, err
}

func (r *usuarioRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := GetDB(ctx, r.db).Model(&model.Usuario{}).Count(&n).Error
	return n, err
}

func (r *usuarioRepo) CountAtivos(ctx context.Context) (int64, error) {
	var n int64
	err := GetDB(ctx, r.db).Model(&model.Usuario{}).Where("ativo = true").Count(&n).Error
	return n, err
}

func (r *usuarioRepo) CountByPerfil(ctx context.Context, perfil model.Perfil) (int64, error) {
	var n int64
	err := GetDB(ctx, r.db).Model(&model.Usuario{}).Where("perfil = ?", perfil).Count(&n).Error
	return n, err
}

func (r *usuarioRepo) Delete(ctx context.Context, id int64) (bool, error) {
	res := GetDB(ctx, r.db).Delete(&model.Usuario{}, id)
	return res.RowsAffected > 0, res.Error
}
