package domain

import "errors"

// Validation failures. They are raised before any network call.
var (
	ErrTitleRequired     = errors.New("Título é obrigatório!")
	ErrPasswordMismatch  = errors.New("As senhas não coincidem")
	ErrWeakPassword      = errors.New("Senha não atende aos requisitos")
	ErrMissingResetToken = errors.New("Token inválido ou não encontrado.")
)
