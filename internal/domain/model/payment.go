package model

// 決済ゲートウェイの前払い情報（クライアントに返す）
type PaymentHandle struct {
	PrepayID  string `json:"prepay_id"`
	NonceStr  string `json:"nonce_str"`
	TimeStamp string `json:"time_stamp"`
	SignType  string `json:"sign_type"`
	PaySign   string `json:"pay_sign"`
}
