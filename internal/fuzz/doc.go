// Package fuzztests holds fuzz harnesses for the lexer and the resolver.
// Каждый вход проходит source -> lexer -> parser; проверяются покрытие
// входа лексемами, инварианты дерева (testkit) и отсутствие зависаний.
//
//	go test ./internal/fuzz -fuzz=FuzzParserInvariants
package fuzztests
