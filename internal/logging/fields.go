package logging

import "github.com/sirupsen/logrus"

// BaseFields 构建 action + 配置路径等基础字段，便于不同入口复用。
func BaseFields(action, configPath string) logrus.Fields {
	return logrus.Fields{
		"action":     action,
		"configPath": configPath,
	}
}

// ServeFields 提供静态请求结果的通用字段，供交付与 trace 日志复用。
func ServeFields(requestID, path, file string, status int) logrus.Fields {
	return logrus.Fields{
		"request_id": requestID,
		"path":       path,
		"file":       file,
		"status":     status,
	}
}
