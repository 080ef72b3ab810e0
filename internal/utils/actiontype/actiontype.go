// Package actiontype описывает допустимые имена типов одноразовых действий.
// Тип становится сегментом пути /api/v1/actions/{type}, поэтому клиент и
// сервер проверяют его по одному шаблону.
package actiontype

import "regexp"

var pattern = regexp.MustCompile(`^[a-z][a-z0-9_.-]{0,63}$`)

// Valid сообщает, подходит ли имя типа действия
func Valid(actionType string) bool {
	return pattern.MatchString(actionType)
}
