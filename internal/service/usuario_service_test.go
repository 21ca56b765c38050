package service_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"finesse/internal/apierror"
	"finesse/internal/auth"
	"finesse/internal/dto"
	"finesse/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const senhaValida = "Segura#2024"

func newUsuarioService() (service.UsuarioService, *stubUsuarioRepo) {
	repo := newStubUsuarioRepo()
	return service.NewUsuarioService(repo, bcrypt.MinCost), repo
}

func TestUsuarioCriar_Success(t *testing.T) {
	svc, repo := newUsuarioService()

	res, err := svc.Criar(context.Background(), dto.CriarUsuarioRequest{
		Nome:  "Maria",
		Email: "  Maria@Clinica.COM ",
		Senha: senhaValida,
	})
	require.NoError(t, err)
	assert.Equal(t, "maria@clinica.com", res.Email)
	assert.Equal(t, "VISUALIZADOR", res.Perfil)
	assert.False(t, res.IsAdmin)

	stored := repo.users[res.ID]
	assert.NotEqual(t, senhaValida, stored.SenhaHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.SenhaHash), []byte(senhaValida)))
}

func TestUsuarioCriar_Rejections(t *testing.T) {
	svc, _ := newUsuarioService()
	ctx := context.Background()
	_, err := svc.Criar(ctx, dto.CriarUsuarioRequest{Nome: "A", Email: "a@x.com", Senha: senhaValida, Perfil: "ADMIN"})
	require.NoError(t, err)

	cases := []struct {
		req  dto.CriarUsuarioRequest
		want string
	}{
		{dto.CriarUsuarioRequest{Nome: "B", Email: "A@X.com", Senha: senhaValida}, "Email já cadastrado"},
		{dto.CriarUsuarioRequest{Nome: "B", Email: "b@x.com", Senha: "fraca"}, "Senha fraca: mínimo 8 caracteres com maiúscula, minúscula, número e especial"},
		{dto.CriarUsuarioRequest{Nome: "B", Email: "b@x.com", Senha: "semespecial1A"}, "Senha fraca: mínimo 8 caracteres com maiúscula, minúscula, número e especial"},
		{dto.CriarUsuarioRequest{Nome: "B", Email: "b@x.com", Senha: senhaValida, Perfil: "GERENTE"}, "Perfil inválido: GERENTE"},
	}
	for _, tc := range cases {
		_, err := svc.Criar(ctx, tc.req)
		assert.Equal(t, 400, apierror.Status(err))
		assert.Equal(t, tc.want, apierror.Message(err))
	}
}

func TestUsuarioAtualizar(t *testing.T) {
	svc, _ := newUsuarioService()
	ctx := context.Background()
	u, err := svc.Criar(ctx, dto.CriarUsuarioRequest{Nome: "Ana", Email: "ana@x.com", Senha: senhaValida})
	require.NoError(t, err)

	_, err = svc.Atualizar(ctx, u.ID, dto.AtualizarUsuarioRequest{Email: "outra@x.com"})
	assert.Equal(t, "Alteração de email não suportada neste endpoint", apierror.Message(err))

	res, err := svc.Atualizar(ctx, u.ID, dto.AtualizarUsuarioRequest{Email: "ANA@x.com", Perfil: "role_admin"})
	require.NoError(t, err)
	assert.Equal(t, "ADMIN", res.Perfil)
	assert.True(t, res.IsAdmin)

	_, err = svc.Atualizar(ctx, 99, dto.AtualizarUsuarioRequest{})
	assert.Equal(t, "Usuário não encontrado", apierror.Message(err))
}

func TestUsuarioDeletar_SelfIsForbidden(t *testing.T) {
	svc, _ := newUsuarioService()
	ctx := context.Background()
	u, err := svc.Criar(ctx, dto.CriarUsuarioRequest{Nome: "Ana", Email: "ana@x.com", Senha: senhaValida})
	require.NoError(t, err)

	err = svc.Deletar(ctx, u.ID, u.ID)
	assert.Equal(t, "Você não pode deletar sua própria conta", apierror.Message(err))

	require.NoError(t, svc.Deletar(ctx, u.ID, u.ID+1))
	assert.Equal(t, 404, apierror.Status(svc.Deletar(ctx, u.ID, u.ID+1)))
}

func TestUsuarioEstatisticasAndBusca(t *testing.T) {
	svc, _ := newUsuarioService()
	ctx := context.Background()
	for _, r := range []dto.CriarUsuarioRequest{
		{Nome: "João Silva", Email: "joao@x.com", Senha: senhaValida, Perfil: "ADMIN"},
		{Nome: "Joana", Email: "joana@x.com", Senha: senhaValida},
		{Nome: "Pedro", Email: "pedro@x.com", Senha: senhaValida},
	} {
		_, err := svc.Criar(ctx, r)
		require.NoError(t, err)
	}
	_, err := svc.AlterarStatus(ctx, 3, false)
	require.NoError(t, err)

	st, err := svc.Estatisticas(ctx)
	require.NoError(t, err)
	assert.Equal(t, dto.EstatisticasUsuariosResponse{Total: 3, Ativos: 2, Inativos: 1, Admins: 1, Visualizadores: 2}, *st)

	found, err := svc.BuscarPorNome(ctx, "joao")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "João Silva", found[0].Nome)

	ativos, err := svc.ListarAtivos(ctx)
	require.NoError(t, err)
	assert.Len(t, ativos, 2)
}

func TestUsuarioAlterarSenha(t *testing.T) {
	svc, repo := newUsuarioService()
	ctx := context.Background()
	u, err := svc.Criar(ctx, dto.CriarUsuarioRequest{Nome: "Ana", Email: "ana@x.com", Senha: senhaValida})
	require.NoError(t, err)

	assert.Equal(t, 400, apierror.Status(svc.AlterarSenha(ctx, u.ID, "curta")))
	require.NoError(t, svc.AlterarSenha(ctx, u.ID, "Nova$Senha9"))
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(repo.users[u.ID].SenhaHash), []byte("Nova$Senha9")))
}

// ── Auth ─────────────────────────────────────────────────────────────────────

func newAuthFixture(t *testing.T) (service.AuthService, *auth.TokenProvider, service.UsuarioService) {
	t.Helper()
	usuarios, repo := newUsuarioService()
	tokens := auth.NewTokenProvider("test-secret-test-secret-test-secret-00", time.Hour, 24*time.Hour)
	_, err := usuarios.Criar(context.Background(), dto.CriarUsuarioRequest{
		Nome: "Admin", Email: "admin@clinica.com", Senha: senhaValida, Perfil: "ADMIN",
	})
	require.NoError(t, err)
	return service.NewAuthService(repo, tokens), tokens, usuarios
}

func TestLogin_Success(t *testing.T) {
	svc, tokens, _ := newAuthFixture(t)

	sess, pair, err := svc.Login(context.Background(), dto.LoginRequest{Email: "ADMIN@clinica.com", Senha: senhaValida})
	require.NoError(t, err)
	assert.Equal(t, []string{"ROLE_ADMIN"}, sess.Roles)

	claims, err := tokens.Parse(pair.AccessToken, auth.TypeAccess)
	require.NoError(t, err)
	assert.Equal(t, "admin@clinica.com", claims.Email)
	_, err = tokens.Parse(pair.RefreshToken, auth.TypeRefresh)
	assert.NoError(t, err)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	svc, _, usuarios := newAuthFixture(t)
	ctx := context.Background()

	for _, req := range []dto.LoginRequest{
		{Email: "admin@clinica.com", Senha: "errada"},
		{Email: "ninguem@clinica.com", Senha: senhaValida},
	} {
		_, _, err := svc.Login(ctx, req)
		assert.Equal(t, 401, apierror.Status(err))
		assert.Equal(t, "Email ou senha incorretos", apierror.Message(err))
	}

	_, err := usuarios.AlterarStatus(ctx, 1, false)
	require.NoError(t, err)
	_, _, err = svc.Login(ctx, dto.LoginRequest{Email: "admin@clinica.com", Senha: senhaValida})
	assert.Equal(t, 401, apierror.Status(err))
}

func TestRefresh(t *testing.T) {
	svc, tokens, usuarios := newAuthFixture(t)
	ctx := context.Background()
	_, pair, err := svc.Login(ctx, dto.LoginRequest{Email: "admin@clinica.com", Senha: senhaValida})
	require.NoError(t, err)

	access, err := svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	_, err = tokens.Parse(access, auth.TypeAccess)
	assert.NoError(t, err)

	_, err = svc.Refresh(ctx, pair.AccessToken)
	assert.Equal(t, "Refresh token inválido ou expirado", apierror.Message(err))

	_, err = usuarios.AlterarStatus(ctx, 1, false)
	require.NoError(t, err)
	_, err = svc.Refresh(ctx, pair.RefreshToken)
	assert.Equal(t, 401, apierror.Status(err))
}

func TestUsuarioSenha_OverBcryptLimitIsRejected(t *testing.T) {
	svc, _ := newUsuarioService()
	ctx := context.Background()
	longa := senhaValida + strings.Repeat("x", 80)

	_, err := svc.Criar(ctx, dto.CriarUsuarioRequest{Nome: "Ana", Email: "ana@x.com", Senha: longa})
	assert.Equal(t, 400, apierror.Status(err))
	assert.Equal(t, "Senha muito longa: máximo 72 bytes", apierror.Message(err))

	u, err := svc.Criar(ctx, dto.CriarUsuarioRequest{Nome: "Ana", Email: "ana@x.com", Senha: senhaValida})
	require.NoError(t, err)
	err = svc.AlterarSenha(ctx, u.ID, longa)
	assert.Equal(t, 400, apierror.Status(err))
	assert.Equal(t, "Senha muito longa: máximo 72 bytes", apierror.Message(err))

	// exactly 72 bytes still hashes
	limite := senhaValida + strings.Repeat("x", 72-len(senhaValida))
	require.NoError(t, svc.AlterarSenha(ctx, u.ID, limite))
}
