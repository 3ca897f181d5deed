package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"seminarhub/models"
	"seminarhub/utils"
)

type signupRequest struct {
	Email     string `json:"email" binding:"required"`
	Password  string `json:"password" binding:"required"`
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Phone     string `json:"phone" binding:"required"`
	Address   string `json:"address" binding:"required"`
}

// POST /signup
func (d *Deps) signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Flash(c, http.StatusBadRequest, utils.SeverityError, "Could not parse request data.")
		return
	}

	u := models.User{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Address:   req.Address,
	}
	if err := d.Users.Create(c.Request.Context(), &u); err != nil {
		d.Log.Warn("signup failed", "email", req.Email, "err", err)
		utils.Flash(c, http.StatusConflict, utils.SeverityError, "Could not create account. The email may already be registered.")
		return
	}

	utils.FlashData(c, http.StatusCreated, utils.SeveritySuccess, "Account created successfully.", gin.H{"user": u})
}

// POST /login
func (d *Deps) login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Flash(c, http.StatusBadRequest, utils.SeverityError, "Could not parse request data.")
		return
	}

	user, err := d.Users.ValidateCredentials(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		utils.Flash(c, http.StatusUnauthorized, utils.SeverityError, "Could not authenticate user.")
		return
	}

	if err := d.Users.TouchLastSeen(c.Request.Context(), user.ID); err != nil {
		d.Log.Warn("touch last seen", "userId", user.ID, "err", err)
	}

	token, err := utils.GenerateToken(user.Email, user.ID)
	if err != nil {
		utils.Flash(c, http.StatusInternalServerError, utils.SeverityError, "Could not authenticate user.")
		return
	}
	utils.FlashData(c, http.StatusOK, utils.SeveritySuccess, "Login successful!", gin.H{"token": token})
}
