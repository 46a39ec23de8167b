package eventbus

import "context"

// Глобальная шина событий мира (world.generated, chunk.loaded и т.д.).
// Устанавливается один раз при старте сервера; до инициализации
// публикации молча игнорируются, чтобы генератор и трекер работали
// и без шины (CLI, демо, тесты).
var worldBus EventBus

// Init устанавливает глобальную шину событий мира.
func Init(bus EventBus) { worldBus = bus }

// Publish отправляет событие в глобальную шину, если она инициализирована.
func Publish(ctx context.Context, ev *Envelope) error {
	if worldBus == nil {
		return nil
	}
	return worldBus.Publish(ctx, ev)
}
