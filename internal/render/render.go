package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"unicode/utf8"

	qrcode "github.com/skip2/go-qrcode"
	"go.uber.org/zap"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/Ta321487/TicketAssitant-sub000/config"
	"github.com/Ta321487/TicketAssitant-sub000/internal/model"
)

// 底纹颜色
var (
	bgRed   = color.RGBA{R: 0xF5, G: 0xC8, B: 0xC0, A: 0xFF}
	bgBlue  = color.RGBA{R: 0xBC, G: 0xD8, B: 0xEE, A: 0xFF}
	inkDark = color.RGBA{R: 0x1A, G: 0x1A, B: 0x1A, A: 0xFF}
	inkRed  = color.RGBA{R: 0xC0, G: 0x26, B: 0x26, A: 0xFF}
)

// Renderer 车票预览渲染器
type Renderer struct {
	face   font.Face
	logger *zap.Logger
}

// NewRenderer 创建渲染器
// 加载配置指定的中文字体；加载失败时降级为内置点阵字体（中文字形缺失，仅影响预览观感）
func NewRenderer(cfg *config.RenderConfig, logger *zap.Logger) *Renderer {
	face := loadFace(cfg.FontPath, logger)
	return &Renderer{face: face, logger: logger}
}

func loadFace(fontPath string, logger *zap.Logger) font.Face {
	raw, err := os.ReadFile(fontPath)
	if err != nil {
		logger.Warn("读取字体文件失败，使用内置字体", zap.String("path", fontPath), zap.Error(err))
		return basicfont.Face7x13
	}
	parsed, err := opentype.Parse(raw)
	if err != nil {
		logger.Warn("解析字体失败，使用内置字体", zap.Error(err))
		return basicfont.Face7x13
	}
	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size: 36, DPI: 72, Hinting: font.HintingFull,
	})
	if err != nil {
		logger.Warn("创建字体 Face 失败，使用内置字体", zap.Error(err))
		return basicfont.Face7x13
	}
	return face
}

// Compose 组合一张车票预览图
// 元素偏移是 (样式, 站名字数) 的纯函数，见 LayoutFor
func (r *Renderer) Compose(ticket *model.Ticket, variant Variant, encodingArea string) (*image.RGBA, error) {
	departLen := utf8.RuneCountInString(model.NormalizeStationName(ticket.DepartStation))
	arriveLen := utf8.RuneCountInString(model.NormalizeStationName(ticket.ArriveStation))
	layout := LayoutFor(variant, departLen, arriveLen)

	img := image.NewRGBA(image.Rect(0, 0, CanvasWidth, CanvasHeight))
	bg := bgBlue
	if variant == VariantRed {
		bg = bgRed
	}
	draw.Draw(img, img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)

	r.drawSpaced(img, ticket.DepartStation, layout.DepartNameX, layout.DepartNameY, layout.DepartSpacing, inkDark)
	r.drawSpaced(img, ticket.ArriveStation, layout.ArriveNameX, layout.ArriveNameY, layout.ArriveSpacing, inkDark)
	r.drawText(img, ticket.TrainNumber(), layout.TrainNumberX, layout.TrainNumberY, inkDark)

	dateText := ticket.TravelDate.Format("2006年01月02日")
	if ticket.TravelTime != "" {
		dateText += ticket.TravelTime + "开"
	}
	r.drawText(img, dateText, layout.DateTimeX, layout.DateTimeY, inkDark)
	r.drawText(img, ticket.SeatLabel(), layout.SeatX, layout.SeatY, inkDark)
	r.drawText(img, fmt.Sprintf("￥%.2f元", ticket.Fare), layout.FareX, layout.FareY, inkDark)
	r.drawText(img, ticket.SeatClass, layout.SeatClassX, layout.SeatClassY, inkDark)
	r.drawText(img, ticket.SerialNumber, layout.SerialX, layout.SerialY, inkRed)
	if ticket.CheckInGate != "" {
		r.drawText(img, "检票:"+ticket.CheckInGate, layout.GateX, layout.GateY, inkDark)
	}

	// 编码区：用户可编辑的自由文本，同时作为二维码载荷
	payload := encodingArea
	if payload == "" {
		payload = ticket.SerialNumber
	}
	r.drawText(img, payload, layout.EncodingX, layout.EncodingY, inkDark)

	if layout.QRSize > 0 && payload != "" {
		if err := drawQR(img, payload, layout.QRX, layout.QRY, layout.QRSize); err != nil {
			return nil, fmt.Errorf("生成二维码失败: %w", err)
		}
	}

	return img, nil
}

// drawText 在基线 (x, y) 处绘制一行文本
func (r *Renderer) drawText(img *image.RGBA, text string, x, y int, ink color.RGBA) {
	if text == "" {
		return
	}
	drawer := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(ink),
		Face: r.face,
		Dot:  fixed.P(x, y),
	}
	drawer.DrawString(text)
}

// drawSpaced 逐字绘制并插入字间距（站名两端对齐规则）
func (r *Renderer) drawSpaced(img *image.RGBA, text string, x, y, spacing int, ink color.RGBA) {
	if spacing <= 0 {
		r.drawText(img, text, x, y, ink)
		return
	}
	drawer := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(ink),
		Face: r.face,
		Dot:  fixed.P(x, y),
	}
	for _, ch := range text {
		drawer.DrawString(string(ch))
		drawer.Dot.X += fixed.I(spacing)
	}
}

// drawQR 在指定位置绘制二维码
func drawQR(img *image.RGBA, payload string, x, y, size int) error {
	qr, err := qrcode.New(payload, qrcode.Medium)
	if err != nil {
		return err
	}
	qr.DisableBorder = true
	qrImg := qr.Image(size)

	rect := image.Rect(x, y, x+size, y+size)
	draw.Draw(img, rect, qrImg, image.Point{}, draw.Over)
	return nil
}

// Export 将预览图编码为 PNG 并写入目标路径
// 路径为空表示用户取消了保存对话框：静默放弃，不产生文件也不报错
func (r *Renderer) Export(img *image.RGBA, filePath string) (aborted bool, err error) {
	if filePath == "" {
		return true, nil
	}

	f, err := os.Create(filePath)
	if err != nil {
		return false, fmt.Errorf("创建导出文件失败: %w", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return false, fmt.Errorf("写入 PNG 失败: %w", err)
	}
	return false, nil
}
