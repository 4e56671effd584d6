package service

import (
	"strings"
	"time"

	"rifamania/config"
	"rifamania/database"
	"rifamania/database/model"
	"rifamania/util/common"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/xlzd/gotp"
	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 10

// ErrInvalidCredentials deliberately does not reveal whether the email or
// the password was wrong.
var ErrInvalidCredentials = common.NewError("Email ou senha inválidos")

type UserService struct{}

type RegisterForm struct {
	Name     string `json:"name" binding:"required,min=3"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Cpf      string `json:"cpf"`
	Phone    string `json:"phone"`
}

type UserUpdateForm struct {
	Name  *string `json:"name"`
	Phone *string `json:"phone"`
	Cpf   *string `json:"cpf"`
}

func (s *UserService) CreateUser(form *RegisterForm) (*model.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(form.Password), bcryptCost)
	if err != nil {
		return nil, err
	}
	user := &model.User{
		Id:       uuid.NewString(),
		Name:     form.Name,
		Email:    strings.ToLower(form.Email),
		Password: string(hash),
		Cpf:      form.Cpf,
		Phone:    form.Phone,
	}
	db := database.GetDB()
	if err := db.Create(user).Error; err != nil {
		if database.IsDuplicate(err) {
			return nil, &common.ValidationError{Msg: "Email já cadastrado."}
		}
		return nil, err
	}
	return user, nil
}

// Login verifies the credentials (and the TOTP code when the account has 2FA
// enabled) and issues a 1h JWT.
func (s *UserService) Login(email, password, totpCode string) (string, error) {
	db := database.GetDB()
	user := &model.User{}
	err := db.Where("email = ?", strings.ToLower(email)).First(user).Error
	if err != nil {
		if database.IsNotFound(err) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return "", ErrInvalidCredentials
	}
	if user.TotpSecret != "" {
		if totpCode == "" || !gotp.NewDefaultTOTP(user.TotpSecret).Verify(totpCode, time.Now().Unix()) {
			return "", ErrInvalidCredentials
		}
	}

	claims := jwt.MapClaims{
		"userId": user.Id,
		"exp":    time.Now().Add(time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.GetJWTSecret()))
}

// CheckToken validates a Bearer token and returns the authenticated user id.
func (s *UserService) CheckToken(tokenStr string) (string, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, common.NewError("unexpected signing method:", t.Method.Alg())
		}
		return []byte(config.GetJWTSecret()), nil
	})
	if err != nil || !token.Valid {
		return "", common.NewError("token inválido")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", common.NewError("token inválido")
	}
	userId, _ := claims["userId"].(string)
	if userId == "" {
		return "", common.NewError("token inválido")
	}
	return userId, nil
}

func (s *UserService) GetUser(id string) (*model.User, error) {
	db := database.GetDB()
	user := &model.User{}
	err := db.Where("id = ?", id).First(user).Error
	if err != nil {
		if database.IsNotFound(err) {
			return nil, &common.NotFoundError{Msg: "Usuário não encontrado."}
		}
		return nil, err
	}
	return user, nil
}

// UpdateUser edits profile fields. The CPF is write-once: set it and it can
// never be changed again.
func (s *UserService) UpdateUser(id string, form *UserUpdateForm) (*model.User, error) {
	user, err := s.GetUser(id)
	if err != nil {
		return nil, err
	}
	if form.Cpf != nil && user.Cpf != "" && *form.Cpf != user.Cpf {
		return nil, &common.ValidationError{Msg: "O CPF não pode ser editado uma vez que foi cadastrado."}
	}
	if form.Name != nil {
		user.Name = *form.Name
	}
	if form.Phone != nil {
		user.Phone = *form.Phone
	}
	if form.Cpf != nil && user.Cpf == "" {
		user.Cpf = *form.Cpf
	}
	if err := database.GetDB().Save(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) UpdatePassword(id, currentPassword, newPassword string) error {
	if len(newPassword) < 8 {
		return &common.ValidationError{Msg: "A nova senha deve ter ao menos 8 caracteres."}
	}
	user, err := s.GetUser(id)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(currentPassword)) != nil {
		return &common.ValidationError{Msg: "Senha atual inválida."}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return err
	}
	return database.GetDB().Model(user).Update("password", string(hash)).Error
}

func (s *UserService) DeleteUser(id string) error {
	user, err := s.GetUser(id)
	if err != nil {
		return err
	}
	return database.GetDB().Delete(user).Error
}
