package service

import (
	"errors"

	"DumaVault/internal/repo"
	"DumaVault/model"
	"DumaVault/utils"

	"gorm.io/gorm"
)

// CreateUser registers a new account with a hashed password.
func CreateUser(username, password, mail string) (*model.User, error) {
	user := model.User{
		UserName: username,
		Password: utils.GetPwd(password),
		Email:    mail,
		IsActive: true,
	}
	if err := repo.Db.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// IsExist reports whether a username is taken.
func IsExist(username string) (bool, error) {
	var user model.User
	err := repo.Db.Where("user_name = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// CheckPassword validates credentials and returns the user on success.
func CheckPassword(username, password string) (*model.User, error) {
	var user model.User
	err := repo.Db.Where("user_name = ?", username).First(&user).Error
	if err != nil {
		return nil, errors.New("username or password is incorrect")
	}
	if !user.IsActive {
		return nil, errors.New("account is disabled")
	}
	if !utils.CheckPwd(password, user.Password) {
		return nil, errors.New("username or password is incorrect")
	}
	return &user, nil
}

// FindUserById looks up a user by id.
func FindUserById(userId uint64) (*model.User, error) {
	var user model.User
	if err := repo.Db.First(&user, userId).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
