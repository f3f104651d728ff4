package handler

import (
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/image/draw"
)

// 缩略图最大宽度，超过才会生成缩略图
const thumbnailMaxWidth = 480

// UploadImage 处理图片上传请求，并为大图生成缩略图
func (a *API) UploadImage(c *gin.Context) {
	// 获取上传的文件
	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "未找到上传的图片", "success": 0})
		return
	}

	// 检查文件类型
	contentType := file.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "只允许上传图片文件", "success": 0})
		return
	}

	// 创建上传目录
	if err := os.MkdirAll(a.uploadDir, 0o755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "创建上传目录失败", "success": 0})
		return
	}

	// 生成唯一文件名
	ext := filepath.Ext(file.Filename)
	newFilename := fmt.Sprintf("%s-%s%s", time.Now().Format("20060102"), uuid.New().String(), ext)
	filePath := filepath.Join(a.uploadDir, newFilename)

	// 保存文件
	if err := c.SaveUploadedFile(file, filePath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "保存文件失败", "success": 0})
		return
	}

	fileURL := fmt.Sprintf("%s/%s", strings.TrimRight(a.uploadURL, "/"), newFilename)

	thumbURL := fileURL
	if thumbName, err := a.writeThumbnail(filePath, newFilename); err != nil {
		c.Error(err) // 缩略图失败不影响上传结果
	} else if thumbName != "" {
		thumbURL = fmt.Sprintf("%s/%s", strings.TrimRight(a.uploadURL, "/"), thumbName)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": 1,
		"message": "上传成功",
		"data": gin.H{
			"url":       fileURL,
			"thumbnail": thumbURL,
		},
	})
}

// writeThumbnail 用 CatmullRom 核缩放生成 jpeg 缩略图。
// 原图宽度不超过阈值时返回空名，调用方直接复用原图。
func (a *API) writeThumbnail(srcPath, baseName string) (string, error) {
	src, err := os.Open(srcPath)
	if err != nil {
		return "", fmt.Errorf("open uploaded image: %w", err)
	}
	defer src.Close()

	img, _, err := image.Decode(src)
	if err != nil {
		return "", fmt.Errorf("decode uploaded image: %w", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() <= thumbnailMaxWidth {
		return "", nil
	}

	height := bounds.Dy() * thumbnailMaxWidth / bounds.Dx()
	dst := image.NewRGBA(image.Rect(0, 0, thumbnailMaxWidth, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	thumbName := fmt.Sprintf("thumb-%s.jpg", strings.TrimSuffix(baseName, filepath.Ext(baseName)))
	out, err := os.Create(filepath.Join(a.uploadDir, thumbName))
	if err != nil {
		return "", fmt.Errorf("create thumbnail: %w", err)
	}
	defer out.Close()

	if err := jpeg.Encode(out, dst, &jpeg.Options{Quality: 85}); err != nil {
		return "", fmt.Errorf("encode thumbnail: %w", err)
	}

	return thumbName, nil
}
