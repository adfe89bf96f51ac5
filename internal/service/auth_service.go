package service

import (
	"errors"

	"student_portal_backend/internal/config"
	"student_portal_backend/internal/model"
	"student_portal_backend/internal/repository"
	"student_portal_backend/internal/util"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService struct {
	UserRepo    *repository.UserRepository
	StudentRepo *repository.StudentRepository
	Cfg         *config.Config
}

func NewAuthService(userRepo *repository.UserRepository, studentRepo *repository.StudentRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		UserRepo:    userRepo,
		StudentRepo: studentRepo,
		Cfg:         cfg,
	}
}

// Register creates the account and, for student accounts, the linked
// student profile used by the recommendation and prediction features.
func (s *AuthService) Register(user *model.User) error {
	_, err := s.UserRepo.FindByEmail(user.Email)
	if err == nil {
		return util.ErrEmailRegistered
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.Password = string(hashedPassword)

	if user.Role == "" {
		user.Role = model.RoleStudent
	}
	if err := s.UserRepo.Create(user); err != nil {
		return err
	}

	if user.Role == model.RoleStudent {
		return s.StudentRepo.Create(&model.Student{
			UserID: user.ID,
			Name:   user.Name,
		})
	}
	return nil
}

func (s *AuthService) Login(email, password string) (string, error) {
	user, err := s.UserRepo.FindByEmail(email)
	if err != nil {
		return "", errors.New("invalid credentials")
	}
	if user.Disabled {
		return "", errors.New("account disabled")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", errors.New("invalid credentials")
	}

	s.UserRepo.UpdateLastLogin(user.ID)
	return util.GenerateJWT(user, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
}

func (s *AuthService) GetCurrentUser(c *gin.Context) *model.User {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		return nil
	}

	user, _ := s.UserRepo.FindByID(claims.UserID)
	return user
}

// StudentForUser resolves the student profile behind an account.
func (s *AuthService) StudentForUser(userID uint) (*model.Student, error) {
	student, err := s.StudentRepo.FindByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrStudentNotFound
		}
		return nil, err
	}
	return student, nil
}
