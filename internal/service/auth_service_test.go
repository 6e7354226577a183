package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/stamelosxp/upThesis-sub000/config"
	"github.com/stamelosxp/upThesis-sub000/internal/dto"
	"github.com/stamelosxp/upThesis-sub000/internal/model"
	"github.com/stamelosxp/upThesis-sub000/pkg/jwt"
)

// ── 测试辅助 ──

func testAuthConfig() *config.Config {
	return &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:               "test-secret-key-0123456789",
			AccessTokenTTL:          15 * time.Minute,
			RefreshTokenTTLDefault:  24 * time.Hour,
			RefreshTokenTTLRemember: 168 * time.Hour,
		},
	}
}

func setupTestAuthService() (AuthService, *mockRepos, *jwt.Manager) {
	repo, m := newMockRepos()
	cfg := testAuthConfig()
	jwtMgr := jwt.NewManager(&cfg.Auth)
	svc := NewAuthService(cfg, repo, jwtMgr, nil, zap.NewNop())
	return svc, m, jwtMgr
}

func seedLoginUser(m *mockRepos, username, password string) *model.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	user := &model.User{
		UserID:       "user-001",
		Name:         "张三",
		Username:     username,
		Email:        username + "@example.edu",
		PasswordHash: string(hash),
		Role:         model.RoleStudent,
	}
	m.users.users[user.UserID] = user
	return user
}

// ── Login 测试 ──

func TestAuthService_Login_Success(t *testing.T) {
	svc, m, jwtMgr := setupTestAuthService()
	seedLoginUser(m, "st1066234", "secret-pass")

	result, err := svc.Login(context.Background(), &dto.LoginRequest{
		Username: "st1066234",
		Password: "secret-pass",
	})
	if err != nil {
		t.Fatalf("Login 应成功: %v", err)
	}
	if result.AccessToken == "" || result.RefreshToken == "" {
		t.Fatal("应返回 token 对")
	}
	if result.User.Username != "st1066234" {
		t.Errorf("期望Username=st1066234，实际=%s", result.User.Username)
	}

	// access token 可解析且类型正确
	claims, err := jwtMgr.ParseToken(result.AccessToken)
	if err != nil {
		t.Fatalf("解析 access token 失败: %v", err)
	}
	if claims.TokenType != "access" || claims.UserID != "user-001" {
		t.Errorf("claims 不符: type=%s user=%s", claims.TokenType, claims.UserID)
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	svc, m, _ := setupTestAuthService()
	seedLoginUser(m, "st1066234", "secret-pass")

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Username: "st1066234",
		Password: "wrong-pass",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("期望 ErrInvalidCredentials，实际: %v", err)
	}
}

func TestAuthService_Login_UnknownUser(t *testing.T) {
	svc, _, _ := setupTestAuthService()

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Username: "ghost",
		Password: "whatever",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("期望 ErrInvalidCredentials，实际: %v", err)
	}
}

// ── RefreshToken 测试 ──

func TestAuthService_RefreshToken_Success(t *testing.T) {
	svc, m, _ := setupTestAuthService()
	seedLoginUser(m, "st1066234", "secret-pass")

	login, err := svc.Login(context.Background(), &dto.LoginRequest{
		Username: "st1066234", Password: "secret-pass",
	})
	if err != nil {
		t.Fatalf("Login 应成功: %v", err)
	}

	result, err := svc.RefreshToken(context.Background(), login.RefreshToken)
	if err != nil {
		t.Fatalf("RefreshToken 应成功: %v", err)
	}
	if result.AccessToken == "" || result.RefreshToken == "" {
		t.Error("应返回新 token 对")
	}
}

func TestAuthService_RefreshToken_RejectsAccessToken(t *testing.T) {
	svc, m, _ := setupTestAuthService()
	seedLoginUser(m, "st1066234", "secret-pass")

	login, err := svc.Login(context.Background(), &dto.LoginRequest{
		Username: "st1066234", Password: "secret-pass",
	})
	if err != nil {
		t.Fatalf("Login 应成功: %v", err)
	}

	// access token 不可用于刷新
	_, err = svc.RefreshToken(context.Background(), login.AccessToken)
	if !errors.Is(err, ErrRefreshInvalid) {
		t.Errorf("期望 ErrRefreshInvalid，实际: %v", err)
	}
}

func TestAuthService_RefreshToken_Garbage(t *testing.T) {
	svc, _, _ := setupTestAuthService()

	_, err := svc.RefreshToken(context.Background(), "not-a-jwt")
	if !errors.Is(err, ErrRefreshInvalid) {
		t.Errorf("期望 ErrRefreshInvalid，实际: %v", err)
	}
}

// ── ChangePassword 测试 ──

func TestAuthService_ChangePassword_Success(t *testing.T) {
	svc, m, _ := setupTestAuthService()
	user := seedLoginUser(m, "st1066234", "old-pass")
	user.MustChangePassword = true

	err := svc.ChangePassword(context.Background(), "user-001", &dto.ChangePasswordRequest{
		OldPassword: "old-pass",
		NewPassword: "new-pass-123",
	})
	if err != nil {
		t.Fatalf("ChangePassword 应成功: %v", err)
	}

	// 新密码生效，强制改密标记复位
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("new-pass-123")); err != nil {
		t.Error("新密码应可通过校验")
	}
	if user.MustChangePassword {
		t.Error("改密后 MustChangePassword 应复位")
	}
}

func TestAuthService_ChangePassword_WrongOld(t *testing.T) {
	svc, m, _ := setupTestAuthService()
	seedLoginUser(m, "st1066234", "old-pass")

	err := svc.ChangePassword(context.Background(), "user-001", &dto.ChangePasswordRequest{
		OldPassword: "bad-old",
		NewPassword: "new-pass-123",
	})
	if !errors.Is(err, ErrOldPasswordWrong) {
		t.Errorf("期望 ErrOldPasswordWrong，实际: %v", err)
	}
}

// ── Logout 测试（无 Redis 时降级） ──

func TestAuthService_Logout_NoRedis(t *testing.T) {
	svc, _, _ := setupTestAuthService()

	// 无 Redis 时登出不报错（客户端丢弃 token）
	if err := svc.Logout(context.Background(), "some-jti", time.Now().Add(time.Minute), ""); err != nil {
		t.Errorf("无 Redis 登出应成功: %v", err)
	}
}
