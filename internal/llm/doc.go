// Package llm выполняет вызовы OpenAI-совместимых chat-completion API.
//
// Один вызов — один синхронный HTTP POST без retry и backoff:
// неудавшийся вызов даёт один error-результат, который координатор
// записывает в аудит и передаёт дальше как данные.
package llm
