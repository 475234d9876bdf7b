package utils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"
)

// SendWhatsAppNotification mengirim notifikasi WhatsApp menggunakan API dari fonnte.com
func SendWhatsAppNotification(phone, message string) error {
	apiURL := "https://api.fonnte.com/send"
	token := os.Getenv("FONNTE_TOKEN")

	if token == "" {
		return fmt.Errorf("FONNTE_TOKEN tidak ditemukan di environment")
	}

	payload := map[string]string{
		"target":  phone,
		"message": message,
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("gagal marshal JSON: %v", err)
	}

	req, err := http.NewRequest("POST", apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("gagal membuat request: %v", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", token)

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("gagal mengirim request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("API mengembalikan status: %d", resp.StatusCode)
	}

	return nil
}

// FormatSaleMessage memformat pesan notifikasi penjualan untuk pemilik toko.
func FormatSaleMessage(kode string, grandTotal float64, lines []string) string {
	message := "TRANSAKSI BARU\n\n"
	message += fmt.Sprintf("Kode: %s\n", kode)
	message += fmt.Sprintf("Grand Total: Rp %.0f\n\n", grandTotal)
	message += "*Items:*\n"

	for i, line := range lines {
		message += fmt.Sprintf("%d. %s\n", i+1, line)
	}

	message += fmt.Sprintf("\n_Waktu: %s_", time.Now().Format("02/01/2006 15:04:05"))

	return message
}
