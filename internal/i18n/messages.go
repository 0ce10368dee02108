package i18n

import "golang.org/x/text/language"

var messages = map[language.Tag]map[string]string{
	language.English: {
		"username_null":                  "Username cannot be null",
		"username_size":                  "Must have min 4 and max 32 characters",
		"email_null":                     "E-mail cannot be null",
		"email_invalid":                  "E-mail is not valid",
		"email_in_use":                   "E-mail in use",
		"password_null":                  "Password cannot be null",
		"password_size":                  "Password must be at least 6 characters",
		"password_pattern":               "Password must have at least 1 uppercase, 1 lowercase letter and 1 number",
		"user_create_success":            "User created",
		"email_failure":                  "E-mail Failure",
		"account_activation_failure":     "This account is either active or the token is invalid",
		"account_activation_success":     "Account is activated",
		"validation_failure":             "Validation Failure",
		"user_not_found":                 "User not found",
		"authentication_failure":         "Incorrect credentials",
		"unauthorized_user_update":       "You are not authorized to update user",
		"unauthorized_user_delete":       "You are not authorized to delete user",
		"user_delete_success":            "User deleted",
		"logout_success":                 "Logged out",
		"email_not_in_use":               "E-mail is not in use",
		"password_reset_request_success": "Check your e-mail for resetting your password",
		"unauthorized_password_reset":    "You are not authorized to update your password. Please follow the password reset steps again.",
		"password_update_success":        "Password updated",
		"profile_image_size":             "Your profile image cannot be bigger than 2MB",
		"unsupported_image_file":         "Only JPEG or PNG files are allowed",
		"unauthorized_hoax_submit":       "You are not authorized to post hoax",
		"hoax_submit_success":            "Hoax is saved",
		"hoax_content_size":              "Hoax must be min 10 and max 5000 characters",
		"attachment_size_limit":          "Uploaded file cannot be bigger than 5MB",
		"unexpected_error":               "An unexpected error occurred",
		"too_many_requests":              "Too many requests. Please try again later.",
		"route_not_found":                "Requested resource not found",
		"malformed_request":              "Request body could not be read",
	},
	language.Turkish: {
		"username_null":                  "Kullanıcı adı boş olamaz",
		"username_size":                  "En az 4 en fazla 32 karakter olmalı",
		"email_null":                     "E-posta boş olamaz",
		"email_invalid":                  "E-posta geçerli değil",
		"email_in_use":                   "Bu e-posta kullanılıyor",
		"password_null":                  "Şifre boş olamaz",
		"password_size":                  "Şifre en az 6 karakter olmalı",
		"password_pattern":               "Şifrede en az 1 büyük harf, 1 küçük harf ve 1 sayı bulunmalıdır",
		"user_create_success":            "Kullanıcı oluşturuldu",
		"email_failure":                  "E-posta gönderiminde hata oluştu",
		"account_activation_failure":     "Bu hesap daha önce aktifleştirilmiş olabilir ya da token hatalı",
		"account_activation_success":     "Hesabınız aktifleştirildi",
		"validation_failure":             "Girilen değerler uygun değil",
		"user_not_found":                 "Kullanıcı bulunamadı",
		"authentication_failure":         "Hatalı giriş bilgileri",
		"unauthorized_user_update":       "Kullanıcıyı güncellemek için yetkiniz yok",
		"unauthorized_user_delete":       "Kullanıcıyı silmek için yetkiniz yok",
		"user_delete_success":            "Kullanıcı silindi",
		"logout_success":                 "Çıkış yapıldı",
		"email_not_in_use":               "Bu e-posta kayıtlı değil",
		"password_reset_request_success": "Şifrenizi yenilemek için e-postanızı kontrol edin",
		"unauthorized_password_reset":    "Şifrenizi güncellemek için yetkiniz yok. Lütfen şifre yenileme adımlarını tekrar izleyin.",
		"password_update_success":        "Şifre güncellendi",
		"profile_image_size":             "Profil resminiz 2MB'dan büyük olamaz",
		"unsupported_image_file":         "Sadece JPEG ya da PNG dosyalarına izin verilir",
		"unauthorized_hoax_submit":       "Hoax göndermek için yetkiniz yok",
		"hoax_submit_success":            "Hoax kaydedildi",
		"hoax_content_size":              "Hoax en az 10 en fazla 5000 karakter olmalı",
		"attachment_size_limit":          "Yüklenen dosya 5MB'dan büyük olamaz",
		"unexpected_error":               "Beklenmeyen bir hata oluştu",
		"too_many_requests":              "Çok fazla istek. Lütfen daha sonra tekrar deneyin.",
		"route_not_found":                "İstenen kaynak bulunamadı",
		"malformed_request":              "İstek gövdesi okunamadı",
	},
}
