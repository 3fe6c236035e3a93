// Package secret provides the zero-on-close buffers that back every
// secret-bearing value in oqssafe (KEM and signature secret keys, KEM
// shared secrets).
//
// On Linux a Buffer is allocated outside the Go heap with an anonymous
// mmap, locked into RAM with mlock and excluded from core dumps with
// madvise(MADV_DONTDUMP). The garbage collector never sees the memory, so
// it is never copied or relocated behind the owner's back. Kernels often
// cap locked memory (RLIMIT_MEMLOCK) far below what a busy process needs;
// when locking is refused the mapping is kept unlocked, and when mapping
// itself fails the buffer falls back to heap memory. In every case Close
// overwrites the contents with zeros before the memory is released.
//
// Live reports how many buffers are currently unreleased. Leak tests use it
// to check that every operation path closes what it allocates.
package secret
