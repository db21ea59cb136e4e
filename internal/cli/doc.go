// Package cli — команды answerflow-cli.
//
// CLI работает только через HTTP API, прямого доступа к БД у него нет.
// Группы команд: question, flow, agent, logs.
package cli
