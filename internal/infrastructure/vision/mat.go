//go:build gocv
// +build gocv

package vision

import (
	"gocv.io/x/gocv"

	"produce-inspector/internal/domain/entity"
)

// frameToMat копирует кадр в новый gocv.Mat. Вызывающий закрывает результат.
func frameToMat(f entity.Frame) (gocv.Mat, error) {
	mt := gocv.MatTypeCV8UC3
	if f.Channels == 1 {
		mt = gocv.MatTypeCV8UC1
	}
	view, err := gocv.NewMatFromBytes(f.Height, f.Width, mt, f.Pix)
	if err != nil {
		return gocv.NewMat(), err
	}
	defer view.Close()
	// Mat поверх чужого буфера живёт только внутри этой функции.
	return view.Clone(), nil
}

// toGray приводит кадр к одному каналу.
func toGray(src gocv.Mat, channels int) gocv.Mat {
	gray := gocv.NewMat()
	if channels == 1 {
		src.CopyTo(&gray)
		return gray
	}
	gocv.CvtColor(src, &gray, gocv.ColorBGRToGray)
	return gray
}

// toBGR приводит кадр к трём каналам.
func toBGR(src gocv.Mat, channels int) gocv.Mat {
	bgr := gocv.NewMat()
	if channels == 3 {
		src.CopyTo(&bgr)
		return bgr
	}
	gocv.CvtColor(src, &bgr, gocv.ColorGrayToBGR)
	return bgr
}

// maskToMat превращает маску в CV_8UC1 со значениями 0/255.
func maskToMat(m entity.Mask) (gocv.Mat, error) {
	buf := make([]byte, len(m.Pix))
	for i, p := range m.Pix {
		if p != 0 {
			buf[i] = 255
		}
	}
	view, err := gocv.NewMatFromBytes(m.Height, m.Width, gocv.MatTypeCV8UC1, buf)
	if err != nil {
		return gocv.NewMat(), err
	}
	defer view.Close()
	return view.Clone(), nil
}

// matToMask копирует CV_8UC1 в новую маску.
func matToMask(mat gocv.Mat) entity.Mask {
	mask := entity.NewMask(mat.Cols(), mat.Rows())
	data := mat.ToBytes()
	for i := range mask.Pix {
		if i < len(data) && data[i] != 0 {
			mask.Pix[i] = 1
		}
	}
	return mask
}

// FrameFromMat копирует CV_8UC1 или CV_8UC3 в кадр.
func FrameFromMat(mat gocv.Mat) entity.Frame {
	frame := entity.NewFrame(mat.Cols(), mat.Rows(), mat.Channels())
	copy(frame.Pix, mat.ToBytes())
	return frame
}
