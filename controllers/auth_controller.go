package controllers

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"github.com/gin-gonic/gin"

	"knovo/config"
	"knovo/db"
	"knovo/models"
	"knovo/utils"
)

// AuthController handles signup/login. When Cognito is configured it fronts
// the hosted user pool; otherwise accounts live in the users collection with
// bcrypt hashes. Either way a successful login mints a local session JWT.
type AuthController struct {
	Cfg   *config.Config
	Store *db.Store
}

func NewAuthController(cfg *config.Config, store *db.Store) *AuthController {
	return &AuthController{Cfg: cfg, Store: store}
}

type SignUpRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type VerifyEmailRequest struct {
	Email            string `json:"email" binding:"required,email"`
	ConfirmationCode string `json:"confirmationCode" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type VerifyForgotPasswordRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Code        string `json:"code" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=8"`
}

func (a *AuthController) SignUp(ctx *gin.Context) {
	var request SignUpRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "message": err.Error()})
		return
	}

	if a.Cfg.UsesCognito() {
		if err := a.signUpWithCognito(ctx, request.Email, request.Password); err != nil {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to sign up", "message": err.Error()})
			return
		}
		ctx.JSON(http.StatusOK, gin.H{"message": "Sign-up successful. Check your email for a confirmation code."})
		return
	}

	existing, err := a.Store.UserByEmail(ctx, request.Email)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to sign up"})
		return
	}
	if existing != nil {
		ctx.JSON(http.StatusConflict, gin.H{"error": "An account with this email already exists"})
		return
	}

	hash, err := utils.HashPassword(request.Password)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to sign up"})
		return
	}

	if _, err := a.Store.UpsertUser(ctx, models.User{
		Email:        request.Email,
		DisplayName:  utils.ExtractNameFromEmail(request.Email),
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	}); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to sign up"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Sign-up successful"})
}

func (a *AuthController) VerifyEmail(ctx *gin.Context) {
	var request VerifyEmailRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "message": err.Error()})
		return
	}

	if !a.Cfg.UsesCognito() {
		// Local accounts are active immediately.
		ctx.JSON(http.StatusOK, gin.H{"message": "Email verification not required"})
		return
	}

	if err := a.verifyEmailWithCognito(ctx, request.Email, request.ConfirmationCode); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify email", "message": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Email verification successful"})
}

func (a *AuthController) Login(ctx *gin.Context) {
	var request LoginRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "message": "Check email and password format"})
		return
	}

	if a.Cfg.UsesCognito() {
		if err := a.loginWithCognito(ctx, request.Email, request.Password); err != nil {
			ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Failed to sign in", "message": "Invalid email or password"})
			return
		}
	} else {
		user, err := a.Store.UserByEmail(ctx, request.Email)
		if err != nil || user == nil || !utils.CheckPasswordHash(request.Password, user.PasswordHash) {
			ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Failed to sign in", "message": "Invalid email or password"})
			return
		}
	}

	// Make sure a profile document exists for the session user.
	user, err := a.Store.UpsertUser(ctx, models.User{
		Email:       request.Email,
		DisplayName: utils.ExtractNameFromEmail(request.Email),
	})
	if err != nil || user == nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to sign in"})
		return
	}

	token, err := utils.GenerateJWTToken(user.ID.Hex(), user.Email)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to sign in"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Sign-in successful", "accessToken": token})
}

func (a *AuthController) ForgotPassword(ctx *gin.Context) {
	var request ForgotPasswordRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "message": "Check email format"})
		return
	}

	if !a.Cfg.UsesCognito() {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Password reset requires the hosted auth provider"})
		return
	}

	if err := a.initiateForgotPassword(ctx, request.Email); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to initiate password reset", "message": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Password reset initiated. Check your email for further instructions."})
}

func (a *AuthController) VerifyForgotPassword(ctx *gin.Context) {
	var request VerifyForgotPasswordRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "message": err.Error()})
		return
	}

	if !a.Cfg.UsesCognito() {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Password reset requires the hosted auth provider"})
		return
	}

	if err := a.confirmForgotPassword(ctx, request.Email, request.Code, request.NewPassword); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to confirm password reset", "message": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Password successfully changed"})
}

func (a *AuthController) VerifyToken(ctx *gin.Context) {
	authHeader := ctx.GetHeader("Authorization")
	if authHeader == "" {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Missing token"})
		return
	}

	const prefix = "Bearer "
	if len(authHeader) <= len(prefix) || authHeader[:len(prefix)] != prefix {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid token format"})
		return
	}

	claims, err := utils.ParseJWTToken(authHeader[len(prefix):])
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Token is valid", "userId": claims.UserID, "email": claims.Email})
}

func (a *AuthController) cognitoClient(ctx *gin.Context) (*cognitoidentityprovider.Client, error) {
	cfg, err := awsConfig.LoadDefaultConfig(ctx, awsConfig.WithRegion(a.Cfg.Cognito.Region))
	if err != nil {
		log.Println("Error loading AWS config:", err)
		return nil, fmt.Errorf("failed to load AWS config: %v", err)
	}
	return cognitoidentityprovider.NewFromConfig(cfg), nil
}

func (a *AuthController) signUpWithCognito(ctx *gin.Context, email, password string) error {
	client, err := a.cognitoClient(ctx)
	if err != nil {
		return err
	}

	secretHash := utils.GenerateSecretHash(email, a.Cfg.Cognito.AppClientId, a.Cfg.Cognito.AppClientSecret)

	input := cognitoidentityprovider.SignUpInput{
		ClientId:   aws.String(a.Cfg.Cognito.AppClientId),
		Password:   aws.String(password),
		SecretHash: aws.String(secretHash),
		Username:   aws.String(email),
		UserAttributes: []types.AttributeType{
			{
				Name:  aws.String("email"),
				Value: aws.String(email),
			},
			{
				Name:  aws.String("nickname"),
				Value: aws.String(utils.ExtractNameFromEmail(email)),
			},
		},
	}

	if _, err := client.SignUp(ctx, &input); err != nil {
		log.Println("Error during sign-up:", err)
		return fmt.Errorf("sign-up failed: %v", err)
	}
	return nil
}

func (a *AuthController) verifyEmailWithCognito(ctx *gin.Context, email, confirmationCode string) error {
	client, err := a.cognitoClient(ctx)
	if err != nil {
		return err
	}

	secretHash := utils.GenerateSecretHash(email, a.Cfg.Cognito.AppClientId, a.Cfg.Cognito.AppClientSecret)

	input := cognitoidentityprovider.ConfirmSignUpInput{
		ClientId:         aws.String(a.Cfg.Cognito.AppClientId),
		ConfirmationCode: aws.String(confirmationCode),
		Username:         aws.String(email),
		SecretHash:       aws.String(secretHash),
	}

	if _, err := client.ConfirmSignUp(ctx, &input); err != nil {
		log.Println("Error during email verification:", err)
		return fmt.Errorf("email verification failed: %v", err)
	}
	return nil
}

func (a *AuthController) loginWithCognito(ctx *gin.Context, email, password string) error {
	client, err := a.cognitoClient(ctx)
	if err != nil {
		return err
	}

	secretHash := utils.GenerateSecretHash(email, a.Cfg.Cognito.AppClientId, a.Cfg.Cognito.AppClientSecret)

	input := cognitoidentityprovider.InitiateAuthInput{
		AuthFlow: types.AuthFlowTypeUserPasswordAuth,
		ClientId: aws.String(a.Cfg.Cognito.AppClientId),
		AuthParameters: map[string]string{
			"USERNAME":    email,
			"PASSWORD":    password,
			"SECRET_HASH": secretHash,
		},
	}

	if _, err := client.InitiateAuth(ctx, &input); err != nil {
		return fmt.Errorf("authentication failed")
	}
	return nil
}

func (a *AuthController) initiateForgotPassword(ctx *gin.Context, email string) error {
	client, err := a.cognitoClient(ctx)
	if err != nil {
		return err
	}

	secretHash := utils.GenerateSecretHash(email, a.Cfg.Cognito.AppClientId, a.Cfg.Cognito.AppClientSecret)

	input := cognitoidentityprovider.ForgotPasswordInput{
		ClientId:   aws.String(a.Cfg.Cognito.AppClientId),
		Username:   aws.String(email),
		SecretHash: aws.String(secretHash),
	}

	if _, err := client.ForgotPassword(ctx, &input); err != nil {
		return fmt.Errorf("error initiating forgot password: %v", err)
	}
	return nil
}

func (a *AuthController) confirmForgotPassword(ctx *gin.Context, email, code, newPassword string) error {
	client, err := a.cognitoClient(ctx)
	if err != nil {
		return err
	}

	secretHash := utils.GenerateSecretHash(email, a.Cfg.Cognito.AppClientId, a.Cfg.Cognito.AppClientSecret)

	input := cognitoidentityprovider.ConfirmForgotPasswordInput{
		ClientId:         aws.String(a.Cfg.Cognito.AppClientId),
		Username:         aws.String(email),
		ConfirmationCode: aws.String(code),
		Password:         aws.String(newPassword),
		SecretHash:       aws.String(secretHash),
	}

	if _, err := client.ConfirmForgotPassword(ctx, &input); err != nil {
		return fmt.Errorf("error confirming forgot password: %v", err)
	}
	return nil
}
