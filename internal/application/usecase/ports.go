package usecase

import "context"

// Mailer envío de correos salientes. La implementación vive en infraestructura.
type Mailer interface {
	Enviar(ctx context.Context, para, asunto, cuerpoHTML string) error
}
