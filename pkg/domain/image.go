package domain

// ImageResponse は生成・編集・取り込みされた画像データとそのMIMEタイプです。
type ImageResponse struct {
	Data     []byte
	MimeType string
}

// ImageGenerationRequest は料理1品分の画像生成要求です。
// Prompt はスタイルカタログから組み立て済みのものを渡します。
type ImageGenerationRequest struct {
	Prompt      string
	AspectRatio string
}

// ImageEditRequest は既存画像に対する編集要求です。
type ImageEditRequest struct {
	Data        []byte
	MimeType    string
	Instruction string
}
