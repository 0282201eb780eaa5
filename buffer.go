package archive

import (
	"bytes"
	"sync"
)

// maxPooledBuffer: buffer yang lebih besar dari ini tidak dikembalikan ke pool
// supaya satu payload multi-megabyte tidak tertahan di memori selamanya.
const maxPooledBuffer = 4 << 20

var bufPool = sync.Pool{New: func() any { return new(bytes.Buffer) }}

// getBufFromPool mengambil buffer kosong dari pool atau membuat baru.
func getBufFromPool() *bytes.Buffer {
	buf := bufPool.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

// returnBufToPool mengembalikan buffer ke pool untuk digunakan kembali.
func returnBufToPool(buf *bytes.Buffer) {
	if buf.Cap() > maxPooledBuffer {
		return
	}
	bufPool.Put(buf)
}
