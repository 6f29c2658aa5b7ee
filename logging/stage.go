package logging

import "errors"

// Stage 抠图流水线的阶段，用于定位失败位置
type Stage string

const (
	StageFetch  Stage = "fetch"
	StageDecode Stage = "decode"
	StageRemove Stage = "remove"
	StageEncode Stage = "encode"
)

type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return string(e.Stage) + ": " + e.Err.Error()
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// WrapStage nil 原样返回
func WrapStage(stage Stage, err error) error {
	if err == nil {
		return nil
	}
	return &StageError{Stage: stage, Err: err}
}

// StageOf 取出错误链上最外层的阶段，没有则返回空
func StageOf(err error) Stage {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage
	}
	return ""
}
