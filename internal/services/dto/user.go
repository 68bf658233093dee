package dto

// UserUpdateRequest - частичное обновление профиля.
// Указатели отличают "поле не прислали" от "прислали пустое"
type UserUpdateRequest struct {
	Login    *string `json:"login" binding:"omitempty,min=3"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Password *string `json:"password" binding:"omitempty,min=6"`
	Name     *string `json:"name"`
	Img      *string `json:"img"`
	Role     *string `json:"role" validate:"omitempty,is-user-role"`
}

// EnrollRequest - запись пользователя на курс
type EnrollRequest struct {
	CourseID string `json:"course_id" binding:"required"`
}

// UploadResponse - результат загрузки файла
type UploadResponse struct {
	Filename string `json:"filename"`
	Path     string `json:"path"`
}
