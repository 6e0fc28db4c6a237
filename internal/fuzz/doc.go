// Package fuzztests houses Go fuzz harnesses that exercise the path
// pipeline (source -> lexer -> parser -> renderer). Its goal is to smoke
// test robustness: malformed scripts must end up as diagnostics, never as
// panics or hangs.
//
// Назначение: запускать fuzz-обработчики, которые загружают байты в FileSet и
// прогоняют их через лексер, парсер и рендерер.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
package fuzztests
