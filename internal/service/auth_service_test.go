package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"skillpath/backend/config"
	"skillpath/backend/internal/dto"
	"skillpath/backend/internal/model"
	"skillpath/backend/pkg/jwt"
)

func setupAuthService() AuthService {
	jwtMgr := jwt.NewManager(&config.AuthConfig{
		JWTSecret:               "test-secret-at-least-32-bytes-long!",
		AccessTokenTTL:          15 * time.Minute,
		RefreshTokenTTLDefault:  24 * time.Hour,
		RefreshTokenTTLRemember: 7 * 24 * time.Hour,
	})
	return NewAuthService(newMockRepository(), jwtMgr, nil, zap.NewNop())
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	svc := setupAuthService()

	resp, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Username: "alice",
		Name:     "Alice Zhang",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("Register 应成功: %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Error("注册应返回令牌对")
	}
	if resp.User.Role != model.RoleEmployee {
		t.Errorf("未指定角色时应默认 employee，实际=%s", resp.User.Role)
	}

	login, err := svc.Login(context.Background(), &dto.LoginRequest{
		Username: "alice",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("Login 应成功: %v", err)
	}
	if login.User.Username != "alice" {
		t.Errorf("期望 username=alice，实际=%s", login.User.Username)
	}
}

func TestAuthService_Register_DuplicateUsername(t *testing.T) {
	svc := setupAuthService()

	req := &dto.RegisterRequest{Username: "bob", Name: "Bob", Password: "password123"}
	if _, err := svc.Register(context.Background(), req); err != nil {
		t.Fatalf("首次注册应成功: %v", err)
	}
	if _, err := svc.Register(context.Background(), req); !errors.Is(err, ErrUsernameTaken) {
		t.Errorf("重复注册期望 ErrUsernameTaken，实际=%v", err)
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	svc := setupAuthService()

	if _, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Username: "carol", Name: "Carol", Password: "password123",
	}); err != nil {
		t.Fatalf("Register 应成功: %v", err)
	}

	_, err := svc.Login(context.Background(), &dto.LoginRequest{Username: "carol", Password: "wrong-pass"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("密码错误期望 ErrInvalidCredentials，实际=%v", err)
	}

	_, err = svc.Login(context.Background(), &dto.LoginRequest{Username: "nobody", Password: "whatever"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("用户不存在也应返回 ErrInvalidCredentials，实际=%v", err)
	}
}

func TestAuthService_Refresh(t *testing.T) {
	svc := setupAuthService()

	reg, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Username: "dave", Name: "Dave", Password: "password123",
	})
	if err != nil {
		t.Fatalf("Register 应成功: %v", err)
	}

	refreshed, err := svc.Refresh(context.Background(), &dto.RefreshRequest{RefreshToken: reg.RefreshToken})
	if err != nil {
		t.Fatalf("Refresh 应成功: %v", err)
	}
	if refreshed.AccessToken == "" {
		t.Error("刷新应返回新的 AccessToken")
	}

	// 用 AccessToken 刷新应被拒绝
	if _, err := svc.Refresh(context.Background(), &dto.RefreshRequest{RefreshToken: reg.AccessToken}); !errors.Is(err, ErrInvalidRefresh) {
		t.Errorf("AccessToken 刷新期望 ErrInvalidRefresh，实际=%v", err)
	}

	if _, err := svc.Refresh(context.Background(), &dto.RefreshRequest{RefreshToken: "garbage"}); !errors.Is(err, ErrInvalidRefresh) {
		t.Errorf("非法令牌期望 ErrInvalidRefresh，实际=%v", err)
	}
}

func TestAuthService_GetProfile(t *testing.T) {
	svc := setupAuthService()

	reg, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Username: "erin", Name: "Erin", Password: "password123", Role: model.RoleManager,
	})
	if err != nil {
		t.Fatalf("Register 应成功: %v", err)
	}

	profile, err := svc.GetProfile(context.Background(), reg.User.UserID)
	if err != nil {
		t.Fatalf("GetProfile 应成功: %v", err)
	}
	if profile.Role != model.RoleManager {
		t.Errorf("期望 role=manager，实际=%s", profile.Role)
	}

	if _, err := svc.GetProfile(context.Background(), "nonexistent"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("期望 ErrUserNotFound，实际=%v", err)
	}
}
