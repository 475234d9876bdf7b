package services

import "errors"

var (
	ErrInvalidProduct      = errors.New("produk atau varian tidak ditemukan")
	ErrInsufficientStock   = errors.New("stok tidak mencukupi")
	ErrInsufficientPayment = errors.New("pembayaran kurang dari grand total")
	ErrEmptySplit          = errors.New("split payment tidak memiliki pembayaran valid")
	ErrUnauthorized        = errors.New("transaksi bukan milik toko ini")
)
