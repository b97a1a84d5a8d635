package types

const (
	RoleAdmin      = "Admin"
	RoleSuperAdmin = "SuperAdmin"
)

type UserInput struct {
	FirstName        string `json:"firstName" validate:"required,min=2,max=50"`
	MiddleName       string `json:"middleName" validate:"required,min=2,max=50"`
	LastName         string `json:"lastName" validate:"required,min=2,max=50"`
	Email            string `json:"email" validate:"required,email"`
	Phone            string `json:"phone" validate:"required,saphone"`
	Role             string `json:"role" validate:"required,oneof=Admin SuperAdmin"`
	VerificationCode string `json:"verificationCode" validate:"required,otpcode"`
	Password         string `json:"password" validate:"required,min=8,strongpass"`
}

type UserEditInput struct {
	FirstName  string `json:"firstName" validate:"required,min=2,max=50"`
	MiddleName string `json:"middleName" validate:"required,min=2,max=50"`
	LastName   string `json:"lastName" validate:"required,min=2,max=50"`
	Phone      string `json:"phone" validate:"required,saphone"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type EmailInput struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordInput struct {
	Email            string `json:"email" validate:"required,email"`
	VerificationCode string `json:"verificationCode" validate:"required,otpcode"`
	NewPassword      string `json:"newPassword" validate:"required,min=6,strongpass"`
}

type UserResponse struct {
	ID         uint   `json:"id"`
	FirstName  string `json:"firstName"`
	MiddleName string `json:"middleName"`
	LastName   string `json:"lastName"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Role       string `json:"role"`
}
