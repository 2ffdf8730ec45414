package usecase

import (
	"context"
	"fmt"
	"log"

	authdto "novelog-backend/internal/auth/dto"
	userdomain "novelog-backend/internal/user/domain"
	"novelog-backend/internal/user/repository"
	"novelog-backend/pkg/apperr"

	firebaseauth "firebase.google.com/go/v4/auth"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
)

var kakaoEndpoint = oauth2.Endpoint{
	AuthURL:  "https://kauth.kakao.com/oauth/authorize",
	TokenURL: "https://kauth.kakao.com/oauth/token",
}

// AuthUsecase covers sign-in via the Kakao OAuth exchange and account
// cleanup. Firebase Auth owns credentials; this layer only brokers between
// the identity provider and Firebase.
type AuthUsecase interface {
	KakaoSignIn(ctx context.Context, code string) (*authdto.KakaoSignInResponse, error)
	DeleteAccount(ctx context.Context, userID string) error
}

type authUsecase struct {
	authClient *firebaseauth.Client
	userRepo   repository.UserRepository
	oauthConf  *oauth2.Config
}

func NewAuthUsecase(authClient *firebaseauth.Client, userRepo repository.UserRepository, clientID, clientSecret, redirectURI string) AuthUsecase {
	return &authUsecase{
		authClient: authClient,
		userRepo:   userRepo,
		oauthConf: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURI,
			Endpoint:     kakaoEndpoint,
			Scopes:       []string{"openid", "profile_nickname", "account_email"},
		},
	}
}

// KakaoSignIn exchanges the authorization code, reads the OIDC id_token
// claims, finds or creates the matching Firebase user and user record, and
// mints a Firebase custom token for the client.
func (u *authUsecase) KakaoSignIn(ctx context.Context, code string) (*authdto.KakaoSignInResponse, error) {
	if u.oauthConf.ClientID == "" {
		return nil, apperr.New(apperr.FailedPrecondition, "kakao client credentials not configured")
	}

	token, err := u.oauthConf.Exchange(ctx, code)
	if err != nil {
		return nil, apperr.New(apperr.Unauthenticated, "kakao code exchange failed").
			WithDetails(map[string]any{"upstream": err.Error()})
	}

	idToken, _ := token.Extra("id_token").(string)
	if idToken == "" {
		return nil, apperr.New(apperr.Unauthenticated, "kakao response carried no id_token")
	}

	sub, email, nickname, err := parseIdentityToken(idToken)
	if err != nil {
		return nil, apperr.New(apperr.Unauthenticated, "kakao id_token could not be parsed").
			WithDetails(map[string]any{"upstream": err.Error()})
	}

	uid := "kakao:" + sub
	if err := u.ensureFirebaseUser(ctx, uid, email, nickname); err != nil {
		return nil, err
	}
	user, err := u.ensureUserRecord(ctx, uid, email, nickname)
	if err != nil {
		return nil, err
	}

	customToken, err := u.authClient.CustomToken(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("failed to mint custom token: %w", err)
	}

	return &authdto.KakaoSignInResponse{CustomToken: customToken, User: user}, nil
}

// parseIdentityToken extracts sub/email/nickname from the provider's OIDC
// id_token. The exchange itself ran over TLS with the client secret, so the
// claims are read without a second signature check here.
func parseIdentityToken(idToken string) (sub, email, nickname string, err error) {
	claims := jwt.MapClaims{}
	if _, _, err = jwt.NewParser().ParseUnverified(idToken, claims); err != nil {
		return "", "", "", err
	}
	sub, _ = claims["sub"].(string)
	if sub == "" {
		return "", "", "", fmt.Errorf("id_token has no subject")
	}
	email, _ = claims["email"].(string)
	nickname, _ = claims["nickname"].(string)
	return sub, email, nickname, nil
}

func (u *authUsecase) ensureFirebaseUser(ctx context.Context, uid, email, name string) error {
	if _, err := u.authClient.GetUser(ctx, uid); err == nil {
		return nil
	} else if !firebaseauth.IsUserNotFound(err) {
		return fmt.Errorf("failed to look up auth user %s: %w", uid, err)
	}

	create := (&firebaseauth.UserToCreate{}).UID(uid).DisplayName(name)
	if email != "" {
		create = create.Email(email)
	}
	if _, err := u.authClient.CreateUser(ctx, create); err != nil {
		return fmt.Errorf("failed to create auth user %s: %w", uid, err)
	}
	log.Printf("[Auth] Created Firebase user %s", uid)
	return nil
}

func (u *authUsecase) ensureUserRecord(ctx context.Context, uid, email, name string) (*userdomain.User, error) {
	user, err := u.userRepo.Get(ctx, uid)
	if err != nil {
		return nil, err
	}
	if user != nil {
		// Refresh profile fields from the provider on every sign-in.
		fields := map[string]any{}
		if name != "" && name != user.Name {
			fields["name"] = name
			user.Name = name
		}
		if email != "" && email != user.Email {
			fields["email"] = email
			user.Email = email
		}
		if len(fields) > 0 {
			if err := u.userRepo.UpdateFields(ctx, uid, fields); err != nil {
				return nil, err
			}
		}
		return user, nil
	}

	user = &userdomain.User{
		ID:           uid,
		Email:        email,
		Name:         name,
		Provider:     "kakao",
		NotifyDaily:  true,
		NotifyWeekly: true,
		Timezone:     "Asia/Seoul",
	}
	if err := u.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	log.Printf("[Auth] Created user record %s", uid)
	return user, nil
}

// DeleteAccount removes the Firebase Auth user and the Firestore user
// record with its subcollections. A missing auth user is not an error; the
// record cleanup still runs.
func (u *authUsecase) DeleteAccount(ctx context.Context, userID string) error {
	if err := u.authClient.DeleteUser(ctx, userID); err != nil && !firebaseauth.IsUserNotFound(err) {
		return fmt.Errorf("failed to delete auth user %s: %w", userID, err)
	}
	if err := u.userRepo.Delete(ctx, userID); err != nil {
		return err
	}
	log.Printf("[Auth] Deleted account %s", userID)
	return nil
}
